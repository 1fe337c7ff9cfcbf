package region

// chunkSize is the default allocation granularity. Requests larger than a
// chunk get a dedicated chunk of exactly the requested size.
const chunkSize = 64 * 1024

// Region is a bump-allocating arena backing a module's intermediate
// representation. Allocations are only reclaimed in bulk, by Reset or by
// dropping the Region itself. A Region is owned by exactly one party at a
// time and is not safe for concurrent use.
type Region struct {
	name      string
	chunks    [][]byte
	off       int
	allocated uint64
}

// New creates an empty region. The name is used for diagnostics only.
func New(name string) *Region {
	return &Region{name: name}
}

// Name returns the region's diagnostic name.
func (r *Region) Name() string {
	return r.name
}

// Alloc returns a zeroed byte slice of length n carved out of the arena.
func (r *Region) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	r.allocated += uint64(n)

	if n > chunkSize {
		// Dedicated chunk, exactly full; the next small allocation
		// opens a fresh bump chunk.
		chunk := make([]byte, n)
		r.chunks = append(r.chunks, chunk)
		r.off = n
		return chunk
	}

	if len(r.chunks) == 0 || r.off+n > len(r.chunks[len(r.chunks)-1]) {
		r.chunks = append(r.chunks, make([]byte, chunkSize))
		r.off = 0
	}

	chunk := r.chunks[len(r.chunks)-1]
	out := chunk[r.off : r.off+n : r.off+n]
	r.off += n
	return out
}

// Allocated returns the total bytes handed out since the last Reset.
func (r *Region) Allocated() uint64 {
	return r.allocated
}

// Reset releases every allocation at once. Slices returned by earlier Alloc
// calls must not be used afterwards.
func (r *Region) Reset() {
	r.chunks = nil
	r.off = 0
	r.allocated = 0
}
