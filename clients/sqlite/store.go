package sqlite

import (
	"context"
	"net/url"

	_ "github.com/mattn/go-sqlite3"

	"github.com/artie-labs/dedupe/clients/sqlite/dialect"
	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/db"
	"github.com/artie-labs/dedupe/lib/sql"
)

const driverName = "sqlite3"

const (
	defaultBusyTimeout = "5000" // 5 seconds
	defaultJournalMode = "WAL"
)

type Store struct {
	db.Store
}

func (s *Store) Dialect() sql.Dialect {
	return dialect.SQLiteDialect{}
}

// buildDSN takes the write lock when the transaction begins so the pass never has to upgrade a read lock.
func buildDSN(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", defaultJournalMode)
	params.Set("_busy_timeout", defaultBusyTimeout)
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")
	return path + "?" + params.Encode()
}

func LoadStore(ctx context.Context, cfg config.SQLite) (*Store, error) {
	store, err := db.Open(ctx, driverName, buildDSN(cfg.DSN()))
	if err != nil {
		return nil, err
	}

	return &Store{Store: store}, nil
}
