package dedupe

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/artie-labs/dedupe/lib/stringutil"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type row struct {
	id  int64
	key []any
}

// group holds every id that shares one natural key, in the order the rows were read.
type group struct {
	key []any
	ids []int64
}

func (g group) keepID() int64 {
	return slices.Min(g.ids)
}

// removeIDs returns every id except the lowest one, preserving read order.
func (g group) removeIDs() []int64 {
	keep := g.keepID()
	removeIDs := make([]int64, 0, len(g.ids)-1)
	for _, id := range g.ids {
		if id != keep {
			removeIDs = append(removeIDs, id)
		}
	}
	return removeIDs
}

// foldValue trims and lower-cases text. Invalid UTF-8 is left untouched, case mapping would rewrite it.
func foldValue(value any) any {
	switch castedValue := value.(type) {
	case string:
		if utf8.ValidString(castedValue) {
			return stringutil.Fold(castedValue)
		}
	case []byte:
		if utf8.Valid(castedValue) {
			return []byte(stringutil.Fold(string(castedValue)))
		}
	}

	return value
}

// keyPart pairs a type tag with an exact rendering of the value. Text and bytes are base64 encoded so that
// every byte survives, and values of different types never compare equal.
func keyPart(value any) [2]any {
	switch castedValue := value.(type) {
	case nil:
		return [2]any{"n", nil}
	case string:
		return [2]any{"s", base64.StdEncoding.EncodeToString([]byte(castedValue))}
	case []byte:
		return [2]any{"x", base64.StdEncoding.EncodeToString(castedValue)}
	case bool:
		return [2]any{"b", castedValue}
	case int:
		return [2]any{"i", int64(castedValue)}
	case int8:
		return [2]any{"i", int64(castedValue)}
	case int16:
		return [2]any{"i", int64(castedValue)}
	case int32:
		return [2]any{"i", int64(castedValue)}
	case int64:
		return [2]any{"i", castedValue}
	case uint8:
		return [2]any{"u", uint64(castedValue)}
	case uint16:
		return [2]any{"u", uint64(castedValue)}
	case uint32:
		return [2]any{"u", uint64(castedValue)}
	case uint64:
		return [2]any{"u", castedValue}
	case float32:
		return [2]any{"f", strconv.FormatFloat(float64(castedValue), 'g', -1, 64)}
	case float64:
		// NaN and infinities have no JSON form.
		return [2]any{"f", strconv.FormatFloat(castedValue, 'g', -1, 64)}
	case time.Time:
		return [2]any{"t", castedValue.Format(time.RFC3339Nano)}
	default:
		return [2]any{fmt.Sprintf("%T", value), fmt.Sprintf("%#v", value)}
	}
}

// encodeKey renders the natural key as a comparable map key. Two keys encode the same only when every value has
// the same type and the same content. NULLs encode as null, so they group together.
func encodeKey(values []any, foldKeys bool) (string, error) {
	parts := make([][2]any, len(values))
	for i, value := range values {
		if foldKeys {
			value = foldValue(value)
		}
		parts[i] = keyPart(value)
	}

	bytes, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("failed to encode key %v: %w", values, err)
	}

	return string(bytes), nil
}

// groupRows groups ids by natural key. Groups come back in the order their first row was read.
func groupRows(rows []row, foldKeys bool) ([]group, error) {
	var groups []group
	keyToIndex := make(map[string]int)
	for _, r := range rows {
		encodedKey, err := encodeKey(r.key, foldKeys)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.id, err)
		}

		idx, ok := keyToIndex[encodedKey]
		if !ok {
			idx = len(groups)
			keyToIndex[encodedKey] = idx
			groups = append(groups, group{key: r.key})
		}

		groups[idx].ids = append(groups[idx].ids, r.id)
	}

	return groups, nil
}
