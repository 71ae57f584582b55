package postgres

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/artie-labs/dedupe/clients/postgres/dialect"
	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/db"
	"github.com/artie-labs/dedupe/lib/sql"
)

type Store struct {
	db.Store
}

func (s *Store) Dialect() sql.Dialect {
	return dialect.PostgresDialect{}
}

func LoadStore(ctx context.Context, cfg config.Postgres) (*Store, error) {
	store, err := db.Open(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, err
	}

	return &Store{Store: store}, nil
}
