package config

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

type Settings struct {
	Config         Config
	VerboseLogging bool
}

// LoadSettings parses the command line. Every flag is optional: without a config file the built-in
// defaults are used, so running the binary with no arguments performs a full pass.
func LoadSettings(args []string) (*Settings, error) {
	var opts struct {
		ConfigFilePath string `short:"c" long:"config" description:"path to the config file"`
		Verbose        bool   `short:"v" long:"verbose" description:"debug logging" optional:"true"`
		DryRun         bool   `long:"dry-run" description:"roll back instead of committing" optional:"true"`
	}

	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, fmt.Errorf("failed to parse args: %w", err)
	}

	cfg := Default()
	if opts.ConfigFilePath != "" {
		fileCfg, err := readFileToConfig(opts.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		cfg = *fileCfg
	}

	if opts.DryRun {
		cfg.DryRun = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return &Settings{
		Config:         cfg,
		VerboseLogging: opts.Verbose,
	}, nil
}
