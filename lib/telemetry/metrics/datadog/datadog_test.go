package datadog

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSettings(t *testing.T) {
	{
		// Defaults
		cfg, err := parseSettings(nil)
		assert.NoError(t, err)
		assert.Equal(t, clientSettings{Addr: "127.0.0.1:8125", Namespace: "dedupe.", Sampling: 1}, cfg)
	}
	{
		// Values as they come out of the YAML config
		cfg, err := parseSettings(map[string]any{
			"addr":      "agent:8125",
			"namespace": "website.",
			"tags":      []any{"env:production", "team:web"},
			"sampling":  0.25,
		})
		assert.NoError(t, err)
		assert.Equal(t, clientSettings{Addr: "agent:8125", Namespace: "website.", Tags: []string{"env:production", "team:web"}, Sampling: 0.25}, cfg)
	}
	{
		// Sample rates outside of (0, 1]
		for _, rate := range []float64{0, -0.5, 1.25} {
			cfg, err := parseSettings(map[string]any{"sampling": rate})
			assert.NoError(t, err)
			assert.Equal(t, 1.0, cfg.Sampling, rate)
		}
	}
	{
		// Tags must be a list
		_, err := parseSettings(map[string]any{"tags": map[string]any{"env": "production"}})
		assert.ErrorContains(t, err, "failed to read metrics settings")
	}
}

func TestToDatadogTags(t *testing.T) {
	assert.Empty(t, toDatadogTags(nil))
	assert.Equal(t, []string{"table:board_members", "what:success"}, toDatadogTags(map[string]string{
		"table": "board_members",
		"what":  "success",
	}))
}

func TestNewDatadogClient(t *testing.T) {
	{
		client, err := NewDatadogClient(map[string]any{
			"tags":      []string{"env:production"},
			"namespace": "website.",
			"sampling":  0.255,
		})
		assert.NoError(t, err)

		stats, ok := client.(*statsClient)
		assert.True(t, ok)
		assert.Equal(t, 0.255, stats.rate)

		clientValue := reflect.ValueOf(stats.client).Elem()
		assert.Equal(t, "website.", clientValue.FieldByName("namespace").String())
		tagsField := clientValue.FieldByName("tags")
		assert.Equal(t, 1, tagsField.Len())
		assert.Equal(t, "env:production", tagsField.Index(0).String())
	}
	{
		// Broken settings
		_, err := NewDatadogClient(map[string]any{"sampling": "often"})
		assert.ErrorContains(t, err, "failed to read metrics settings")
	}
}
