package chunker

// Chunk is one contiguous slice of items along with its position.
type Chunk[T any] struct {
	Index int
	// Offset is the position of Items[0] in the input.
	Offset int
	Items  []T
}

// Split splits items into consecutive chunks of at most size elements,
// preserving order. The chunks share the input's backing array.
// A non-positive size yields a single chunk holding every item.
func Split[T any](items []T, size int) []Chunk[T] {
	n := len(items)
	if n == 0 {
		return nil
	}
	if size <= 0 {
		size = n
	}

	chunks := make([]Chunk[T], 0, (n+size-1)/size)
	for i := 0; i < n; i += size {
		end := i + size
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk[T]{
			Index:  len(chunks),
			Offset: i,
			Items:  items[i:end:end],
		})
	}
	return chunks
}

// Count returns the number of chunks Split would produce.
func Count(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}
