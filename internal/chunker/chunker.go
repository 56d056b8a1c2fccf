package chunker

// Chunk is a contiguous slice of the input along with its position.
type Chunk[T any] struct {
	Index int
	// Offset is the position of Items[0] in the original input.
	Offset int
	Items  []T
}

// Split partitions items into contiguous chunks of at most size elements.
// Concatenating the chunks in order reproduces items exactly.
// An empty input or a non-positive size yields no chunks.
func Split[T any](items []T, size int) []Chunk[T] {
	n := len(items)
	if n == 0 || size <= 0 {
		return nil
	}

	chunks := make([]Chunk[T], 0, Count(n, size))
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

// Count returns ceil(n / size), the number of chunks Split would produce.
func Count(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
