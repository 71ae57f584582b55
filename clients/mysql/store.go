package mysql

import (
	"context"

	_ "github.com/go-sql-driver/mysql"

	"github.com/artie-labs/dedupe/clients/mysql/dialect"
	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/db"
	"github.com/artie-labs/dedupe/lib/sql"
)

type Store struct {
	db.Store
}

func (s *Store) Dialect() sql.Dialect {
	return dialect.MySQLDialect{}
}

func LoadStore(ctx context.Context, cfg config.MySQL) (*Store, error) {
	store, err := db.Open(ctx, "mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}

	return &Store{Store: store}, nil
}
