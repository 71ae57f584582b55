package destination

import (
	"context"
	"fmt"

	"github.com/artie-labs/dedupe/clients/mssql"
	"github.com/artie-labs/dedupe/clients/mysql"
	"github.com/artie-labs/dedupe/clients/postgres"
	"github.com/artie-labs/dedupe/clients/sqlite"
	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/config/constants"
	"github.com/artie-labs/dedupe/lib/db"
	"github.com/artie-labs/dedupe/lib/sql"
)

// DialectAware is implemented by every store, the dialect quotes identifiers and numbers placeholders.
type DialectAware interface {
	Dialect() sql.Dialect
}

// Destination is an open store that knows its SQL dialect.
type Destination interface {
	db.Store
	DialectAware
}

// Load opens the store selected by [config.Store.Kind]. Failing to connect yields a [db.ConnectionError].
func Load(ctx context.Context, cfg config.Store) (Destination, error) {
	switch cfg.Kind {
	case constants.SQLite:
		if cfg.SQLite == nil {
			return nil, fmt.Errorf("sqlite settings are nil")
		}
		return toDestination[*sqlite.Store](sqlite.LoadStore(ctx, *cfg.SQLite))
	case constants.Postgres:
		if cfg.Postgres == nil {
			return nil, fmt.Errorf("postgres settings are nil")
		}
		return toDestination[*postgres.Store](postgres.LoadStore(ctx, *cfg.Postgres))
	case constants.MySQL:
		if cfg.MySQL == nil {
			return nil, fmt.Errorf("mysql settings are nil")
		}
		return toDestination[*mysql.Store](mysql.LoadStore(ctx, *cfg.MySQL))
	case constants.MSSQL:
		if cfg.MSSQL == nil {
			return nil, fmt.Errorf("mssql settings are nil")
		}
		return toDestination[*mssql.Store](mssql.LoadStore(ctx, *cfg.MSSQL))
	default:
		return nil, fmt.Errorf("store kind %q is not supported", cfg.Kind)
	}
}

// toDestination keeps a failed load from turning into a non-nil interface holding a nil store.
func toDestination[T Destination](store T, err error) (Destination, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}
