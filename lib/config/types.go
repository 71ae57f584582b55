package config

import (
	"github.com/artie-labs/dedupe/lib/config/constants"
)

type Sentry struct {
	DSN string `yaml:"dsn"`
}

type Reporting struct {
	Sentry *Sentry `yaml:"sentry"`
}

type SQLite struct {
	Path string `yaml:"path"`
}

type Postgres struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	DisableSSL bool   `yaml:"disableSSL"`
}

type MySQL struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type MSSQL struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type Store struct {
	Kind constants.StoreKind `yaml:"kind"`

	SQLite   *SQLite   `yaml:"sqlite,omitempty"`
	Postgres *Postgres `yaml:"postgres,omitempty"`
	MySQL    *MySQL    `yaml:"mysql,omitempty"`
	MSSQL    *MSSQL    `yaml:"mssql,omitempty"`
}

// TableConfig describes one table to deduplicate.
type TableConfig struct {
	Name string `yaml:"name"`
	// IDColumn is the surrogate identifier, the lowest value of each duplicate group survives.
	IDColumn string `yaml:"idColumn"`
	// KeyFields is the ordered natural key, rows with equal values across all of them are duplicates.
	KeyFields []string `yaml:"keyFields"`
	// FoldKeys compares string key values after trimming whitespace and lower-casing.
	FoldKeys bool `yaml:"foldKeys"`
}

type Config struct {
	Store  Store         `yaml:"store"`
	Tables []TableConfig `yaml:"tables"`

	// DeleteBatchSize caps how many ids are bound into a single DELETE statement.
	DeleteBatchSize int `yaml:"deleteBatchSize"`
	// DryRun runs the whole pass and then rolls the transaction back.
	DryRun bool `yaml:"dryRun"`

	Reporting Reporting `yaml:"reporting"`
	Telemetry struct {
		Metrics struct {
			Provider constants.ExporterKind `yaml:"provider"`
			Settings map[string]any         `yaml:"settings,omitempty"`
		}
	}
}
