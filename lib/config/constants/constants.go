package constants

import "slices"

const (
	// DefaultIDColumn is the surrogate identifier every deduplicated table is expected to carry.
	DefaultIDColumn = "id"
	// DefaultSQLitePath matches the file the website writes its content tables to.
	DefaultSQLitePath = "database.sqlite"

	DefaultDeleteBatchSize = 500
	// SQL Server caps a single statement at 2100 bind parameters.
	MaxDeleteBatchSize = 2000
)

// ExporterKind is used for the Telemetry package
type ExporterKind string

const (
	Datadog ExporterKind = "datadog"
)

type StoreKind string

const (
	SQLite   StoreKind = "sqlite"
	Postgres StoreKind = "postgres"
	MySQL    StoreKind = "mysql"
	MSSQL    StoreKind = "mssql"
)

var validStores = []StoreKind{
	SQLite,
	Postgres,
	MySQL,
	MSSQL,
}

func IsValidStore(kind StoreKind) bool {
	return slices.Contains(validStores, kind)
}
