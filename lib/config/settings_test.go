package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadSettings(t *testing.T) {
	{
		// No arguments
		settings, err := LoadSettings(nil)
		assert.NoError(t, err)
		assert.Equal(t, Default(), settings.Config)
		assert.False(t, settings.VerboseLogging)
	}
	{
		// Flags
		settings, err := LoadSettings([]string{"-v", "--dry-run"})
		assert.NoError(t, err)
		assert.True(t, settings.VerboseLogging)
		assert.True(t, settings.Config.DryRun)
	}
	{
		// Config file
		path := writeConfig(t, `
store:
  sqlite:
    path: website.sqlite
deleteBatchSize: 50
`)
		settings, err := LoadSettings([]string{"--config", path})
		assert.NoError(t, err)
		assert.Equal(t, "website.sqlite", settings.Config.Store.SQLite.Path)
		assert.Equal(t, 50, settings.Config.DeleteBatchSize)
		assert.False(t, settings.Config.DryRun)
	}
	{
		// Missing config file
		_, err := LoadSettings([]string{"-c", "/does/not/exist.yaml"})
		assert.ErrorContains(t, err, "failed to parse config file")
	}
	{
		// Invalid config
		path := writeConfig(t, "deleteBatchSize: -1\n")
		_, err := LoadSettings([]string{"-c", path})
		assert.ErrorContains(t, err, "failed to validate config")
	}
	{
		// Unknown flag
		_, err := LoadSettings([]string{"--force"})
		assert.ErrorContains(t, err, "failed to parse args")
	}
}
