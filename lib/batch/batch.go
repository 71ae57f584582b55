package batch

import "fmt"

// ByCount splits [in] into consecutive batches of at most [size] elements and passes each of them to [yield].
// Batches share the backing array of [in].
func ByCount[T any](in []T, size int, yield func([]T) error) error {
	if size <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", size)
	}

	for start := 0; start < len(in); start += size {
		end := min(start+size, len(in))
		if err := yield(in[start:end]); err != nil {
			return err
		}
	}

	return nil
}
