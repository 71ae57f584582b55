package mssql

import (
	"context"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/artie-labs/dedupe/clients/mssql/dialect"
	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/db"
	"github.com/artie-labs/dedupe/lib/sql"
)

type Store struct {
	db.Store
}

func (s *Store) Dialect() sql.Dialect {
	return dialect.MSSQLDialect{}
}

func LoadStore(ctx context.Context, cfg config.MSSQL) (*Store, error) {
	// The "sqlserver" driver understands @pN placeholders, the legacy "mssql" one does not.
	store, err := db.Open(ctx, "sqlserver", cfg.DSN())
	if err != nil {
		return nil, err
	}

	return &Store{Store: store}, nil
}
