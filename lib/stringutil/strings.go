package stringutil

import "strings"

// Fold trims surrounding whitespace and lower-cases the value, so " Alice " and "alice" compare equal.
func Fold(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Empty returns true if any of the values is empty.
func Empty(vals ...string) bool {
	for _, val := range vals {
		if val == "" {
			return true
		}
	}

	return false
}
