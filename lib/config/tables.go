package config

import (
	"fmt"
	"slices"

	"github.com/artie-labs/dedupe/lib/config/constants"
	"github.com/artie-labs/dedupe/lib/sql"
)

// DefaultTables are the content tables the website accumulated duplicates in, staff first.
func DefaultTables() []TableConfig {
	return []TableConfig{
		{Name: "organization_staff", IDColumn: constants.DefaultIDColumn, KeyFields: []string{"name", "position"}},
		{Name: "board_members", IDColumn: constants.DefaultIDColumn, KeyFields: []string{"name", "position"}},
	}
}

// Columns returns the identifier column followed by the key fields, in select order.
func (t TableConfig) Columns() []string {
	return append([]string{t.IDColumn}, t.KeyFields...)
}

func (t TableConfig) Validate() error {
	if err := sql.ValidateIdentifier(t.Name); err != nil {
		return fmt.Errorf("invalid table name: %w", err)
	}

	if err := sql.ValidateIdentifier(t.IDColumn); err != nil {
		return fmt.Errorf("table %q has an invalid id column: %w", t.Name, err)
	}

	if len(t.KeyFields) == 0 {
		return fmt.Errorf("table %q has no key fields", t.Name)
	}

	seen := make(map[string]bool, len(t.KeyFields))
	for _, field := range t.KeyFields {
		if err := sql.ValidateIdentifier(field); err != nil {
			return fmt.Errorf("table %q has an invalid key field: %w", t.Name, err)
		}

		if field == t.IDColumn {
			return fmt.Errorf("table %q uses its id column %q as a key field", t.Name, field)
		}

		if seen[field] {
			return fmt.Errorf("table %q lists key field %q more than once", t.Name, field)
		}
		seen[field] = true
	}

	return nil
}

func validateTables(tables []TableConfig) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables configured")
	}

	var names []string
	for _, table := range tables {
		if err := table.Validate(); err != nil {
			return err
		}

		if slices.Contains(names, table.Name) {
			return fmt.Errorf("table %q is configured more than once", table.Name)
		}
		names = append(names, table.Name)
	}

	return nil
}
