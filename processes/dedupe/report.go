package dedupe

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

type DuplicateGroup struct {
	// Key holds the natural key values as read from the first row of the group.
	Key       []any
	KeepID    int64
	RemoveIDs []int64
}

type TableResult struct {
	Table       string
	RowsScanned int
	Groups      []DuplicateGroup
	Removed     int
	Remaining   int64
}

type Report struct {
	RunID    string
	DryRun   bool
	Tables   []TableResult
	Duration time.Duration
}

func (r Report) TotalRemoved() int {
	var total int
	for _, table := range r.Tables {
		total += table.Removed
	}
	return total
}

func formatValue(value any) string {
	switch castedValue := value.(type) {
	case nil:
		return "NULL"
	case []byte:
		if utf8.Valid(castedValue) {
			return string(castedValue)
		}
		return fmt.Sprintf("x'%x'", castedValue)
	default:
		return fmt.Sprint(castedValue)
	}
}

func formatKey(key []any) string {
	parts := make([]string, len(key))
	for i, value := range key {
		parts[i] = formatValue(value)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Write renders the report as plain text.
func (r Report) Write(w io.Writer) error {
	var sb strings.Builder
	for _, table := range r.Tables {
		fmt.Fprintf(&sb, "Processing %s...\n", table.Table)
		for _, group := range table.Groups {
			fmt.Fprintf(&sb, "Found duplicates for %s: keeping ID %d, removing IDs %v\n", formatKey(group.Key), group.KeepID, group.RemoveIDs)
		}
		fmt.Fprintf(&sb, "Removed %d duplicate rows from %s (%d rows remaining)\n", table.Removed, table.Table, table.Remaining)
	}

	fmt.Fprintf(&sb, "Total removed: %d\n", r.TotalRemoved())
	if r.DryRun {
		sb.WriteString("Dry run: changes were rolled back\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
