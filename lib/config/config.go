package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/artie-labs/dedupe/lib/config/constants"
)

// Default returns the configuration used when no config file is passed in.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func readFileToConfig(pathToConfig string) (*Config, error) {
	bytes, err := os.ReadFile(pathToConfig)
	if err != nil {
		return nil, err
	}

	var config Config
	if err = yaml.Unmarshal(bytes, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Kind == "" {
		c.Store.Kind = constants.SQLite
	}

	if c.Store.Kind == constants.SQLite {
		if c.Store.SQLite == nil {
			c.Store.SQLite = &SQLite{}
		}

		if c.Store.SQLite.Path == "" {
			c.Store.SQLite.Path = constants.DefaultSQLitePath
		}
	}

	if len(c.Tables) == 0 {
		c.Tables = DefaultTables()
	}

	for i := range c.Tables {
		if c.Tables[i].IDColumn == "" {
			c.Tables[i].IDColumn = constants.DefaultIDColumn
		}
	}

	if c.DeleteBatchSize == 0 {
		c.DeleteBatchSize = constants.DefaultDeleteBatchSize
	}
}

func (c Config) validateStore() error {
	switch c.Store.Kind {
	case constants.SQLite:
		if c.Store.SQLite == nil || c.Store.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is empty")
		}
	case constants.Postgres:
		if c.Store.Postgres == nil {
			return fmt.Errorf("postgres settings are nil")
		}

		if c.Store.Postgres.Host == "" || c.Store.Postgres.Database == "" || c.Store.Postgres.Port <= 0 {
			return fmt.Errorf("postgres host, port or database is empty")
		}
	case constants.MySQL:
		if c.Store.MySQL == nil {
			return fmt.Errorf("mysql settings are nil")
		}

		if c.Store.MySQL.Host == "" || c.Store.MySQL.Database == "" || c.Store.MySQL.Port <= 0 {
			return fmt.Errorf("mysql host, port or database is empty")
		}
	case constants.MSSQL:
		if c.Store.MSSQL == nil {
			return fmt.Errorf("mssql settings are nil")
		}

		if c.Store.MSSQL.Host == "" || c.Store.MSSQL.Database == "" || c.Store.MSSQL.Port <= 0 {
			return fmt.Errorf("mssql host, port or database is empty")
		}
	default:
		return fmt.Errorf("store kind %q is not supported", c.Store.Kind)
	}

	return nil
}

// Validate checks the store settings, every table descriptor and the batch size.
func (c Config) Validate() error {
	if !constants.IsValidStore(c.Store.Kind) {
		return fmt.Errorf("config is invalid, store kind %q is not supported", c.Store.Kind)
	}

	if err := c.validateStore(); err != nil {
		return fmt.Errorf("config is invalid: %w", err)
	}

	if err := validateTables(c.Tables); err != nil {
		return fmt.Errorf("config is invalid: %w", err)
	}

	if c.DeleteBatchSize < 1 || c.DeleteBatchSize > constants.MaxDeleteBatchSize {
		return fmt.Errorf("config is invalid, delete batch size %d is outside of [1, %d]", c.DeleteBatchSize, constants.MaxDeleteBatchSize)
	}

	if provider := c.Telemetry.Metrics.Provider; provider != "" && provider != constants.Datadog {
		return fmt.Errorf("config is invalid, metrics provider %q is not supported", provider)
	}

	return nil
}
