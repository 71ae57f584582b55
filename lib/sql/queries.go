package sql

import (
	"fmt"
	"strings"
)

// QuoteIdentifiers validates and quotes every identifier, in order.
func QuoteIdentifiers(dialect Dialect, identifiers []string) ([]string, error) {
	quoted := make([]string, len(identifiers))
	for i, identifier := range identifiers {
		if err := ValidateIdentifier(identifier); err != nil {
			return nil, err
		}

		quoted[i] = dialect.QuoteIdentifier(identifier)
	}

	return quoted, nil
}

func Placeholders(dialect Dialect, count int) []string {
	placeholders := make([]string, count)
	for i := range placeholders {
		placeholders[i] = dialect.Placeholder(i)
	}
	return placeholders
}

// BuildSelectQuery selects the given columns from every row of the table, in no particular order.
func BuildSelectQuery(tableID TableIdentifier, cols []string) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("no columns to select")
	}

	quotedCols, err := QuoteIdentifiers(tableID.dialect, cols)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quotedCols, ", "), tableID.FullyQualifiedName()), nil
}

// BuildDeleteByIDsQuery returns a DELETE statement with [count] bind parameters for the id column.
func BuildDeleteByIDsQuery(tableID TableIdentifier, idColumn string, count int) (string, error) {
	if count <= 0 {
		return "", fmt.Errorf("count must be positive, got %d", count)
	}

	if err := ValidateIdentifier(idColumn); err != nil {
		return "", err
	}

	return fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)",
		tableID.FullyQualifiedName(),
		tableID.dialect.QuoteIdentifier(idColumn),
		strings.Join(Placeholders(tableID.dialect, count), ", "),
	), nil
}

func BuildCountQuery(tableID TableIdentifier) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", tableID.FullyQualifiedName())
}
