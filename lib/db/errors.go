package db

import (
	"fmt"

	"github.com/artie-labs/dedupe/lib/redact"
)

// ConnectionError is returned when the store cannot be opened. No transaction exists at that point.
// Its message never carries the password of the DSN.
type ConnectionError struct {
	DriverName string
	Err        error
}

func (c ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %s", c.DriverName, redact.ScrubCredentials(c.Err.Error()))
}

func (c ConnectionError) Unwrap() error {
	return c.Err
}

type Operation string

const (
	OperationBegin    Operation = "begin"
	OperationRead     Operation = "read"
	OperationDelete   Operation = "delete"
	OperationCount    Operation = "count"
	OperationCommit   Operation = "commit"
	OperationRollback Operation = "rollback"
)

// QueryError is returned when a statement fails mid-run, it always leads to a rollback.
type QueryError struct {
	Operation Operation
	Table     string
	Err       error
}

func NewQueryError(op Operation, table string, err error) QueryError {
	return QueryError{Operation: op, Table: table, Err: err}
}

func (q QueryError) Error() string {
	if q.Table == "" {
		return fmt.Sprintf("failed to %s: %v", q.Operation, q.Err)
	}

	return fmt.Sprintf("failed to %s table %q: %v", q.Operation, q.Table, q.Err)
}

func (q QueryError) Unwrap() error {
	return q.Err
}
