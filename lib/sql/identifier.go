package sql

import (
	"fmt"
	"regexp"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier rejects anything that is not a plain, unquoted SQL identifier.
// Table and column names are interpolated into statements, so this is the only gate between config and SQL text.
func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("identifier is empty")
	}

	if !identifierRegex.MatchString(identifier) {
		return fmt.Errorf("identifier %q must match %s", identifier, identifierRegex.String())
	}

	return nil
}

type TableIdentifier struct {
	table   string
	dialect Dialect
}

func NewTableIdentifier(dialect Dialect, table string) (TableIdentifier, error) {
	if err := ValidateIdentifier(table); err != nil {
		return TableIdentifier{}, err
	}

	return TableIdentifier{table: table, dialect: dialect}, nil
}

func (ti TableIdentifier) Table() string {
	return ti.table
}

func (ti TableIdentifier) FullyQualifiedName() string {
	return ti.dialect.QuoteIdentifier(ti.table)
}
