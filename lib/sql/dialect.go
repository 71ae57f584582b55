package sql

type Dialect interface {
	QuoteIdentifier(identifier string) string
	// Placeholder returns the bind parameter marker for the zero-based argument position.
	Placeholder(position int) string
	IsTableDoesNotExistErr(err error) bool
}
