package db

import (
	"context"
	"database/sql"
	"log/slog"
)

// Executor is satisfied by both [*sql.DB] and [*sql.Tx].
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store interface {
	Executor
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

type storeWrapper struct {
	*sql.DB
}

// Open opens and pings the database. Any failure is returned as a [ConnectionError].
func Open(ctx context.Context, driverName, dsn string) (Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, ConnectionError{DriverName: driverName, Err: err}
	}

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Warn("Failed to close the DB after a failed ping", slog.Any("err", closeErr))
		}
		return nil, ConnectionError{DriverName: driverName, Err: err}
	}

	return FromDB(db), nil
}

// FromDB wraps an already opened [*sql.DB].
func FromDB(db *sql.DB) Store {
	return &storeWrapper{DB: db}
}
