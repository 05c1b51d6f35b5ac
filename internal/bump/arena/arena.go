// Package arena implements the chunked bump-pointer engine backing each
// goroutine-local allocator slot. An Arena hands out memory by advancing an
// offset through pre-reserved chunks; deallocation is bulk (Reset), with a
// last-allocation fast path for Deallocate/Grow/Shrink.
//
// An Arena is NOT safe for concurrent use. The bump package guarantees every
// Arena is only ever touched by the goroutine that owns its slot, except
// during a coordinated reset that holds the sole remaining handle.
package arena

import (
	"errors"
	"unsafe"
)

// NoLimit disables the per-arena allocation ceiling.
const NoLimit = -1

// minChunkSize is the size of the first chunk grown for an arena that was
// constructed with zero initial capacity.
const minChunkSize = 512

// ErrAllocationLimit is returned when an allocation would push the arena past
// its configured allocation limit. The arena is left unchanged.
var ErrAllocationLimit = errors.New("arena: allocation limit exceeded")

// chunk is a single backing block. offset is the bump position within buf.
type chunk struct {
	buf    []byte
	offset uintptr
}

// Arena is a chunked bump allocator.
//
// Allocation always happens in the last chunk. When it cannot satisfy a
// request, a new chunk of at least double the previous size is appended.
// Reset keeps the largest chunk for reuse and releases the rest.
type Arena struct {
	chunks   []chunk
	baseSize int // configured initial capacity in bytes
	limit    int // allocation ceiling, NoLimit for none
	released bool
}

// New creates an Arena with one chunk of exactly capacity bytes (no chunk if
// capacity <= 0) and the given allocation limit (NoLimit or any negative
// value disables it).
func New(capacity, limit int) *Arena {
	if limit < 0 {
		limit = NoLimit
	}
	a := &Arena{baseSize: capacity, limit: limit}
	if capacity > 0 {
		a.chunks = append(a.chunks, chunk{buf: make([]byte, capacity)})
	}
	return a
}

// AllocBytes returns a slice of size bytes carved out of the arena, aligned
// to align (a power of two; values <= 1 mean byte alignment). The memory is
// not zeroed. Returns nil for size <= 0.
//
// The only possible error is ErrAllocationLimit; it is reported before any
// state changes.
func (a *Arena) AllocBytes(size, align int) ([]byte, error) {
	a.panicIfReleased()
	if size <= 0 {
		return nil, nil
	}
	if align <= 0 {
		align = 1
	}

	// Fast path: bump within the current chunk. Alignment must be applied to
	// the absolute address, not the offset: a chunk base only carries the
	// runtime's default alignment, which is below large requested aligns.
	if n := len(a.chunks); n > 0 {
		c := &a.chunks[n-1]
		base := uintptr(unsafe.Pointer(&c.buf[0]))
		off := alignUp(base+c.offset, uintptr(align)) - base
		if off+uintptr(size) <= uintptr(len(c.buf)) {
			consumed := int(off-c.offset) + size
			if err := a.checkLimit(consumed); err != nil {
				return nil, err
			}
			c.offset = off + uintptr(size)
			return unsafe.Slice(&c.buf[off], size), nil
		}
	}

	return a.allocBytesSlow(size, align)
}

// allocBytesSlow appends a fresh chunk and allocates from its first aligned
// address. The chunk is reserved align-1 bytes larger than requested so the
// allocation fits wherever the base happens to land; any leading padding
// counts toward SizeInUse but is not charged against the limit check, which
// runs before the base address is known.
func (a *Arena) allocBytesSlow(size, align int) ([]byte, error) {
	if err := a.checkLimit(size); err != nil {
		return nil, err
	}
	a.grow(size + align - 1)
	c := &a.chunks[len(a.chunks)-1]
	base := uintptr(unsafe.Pointer(&c.buf[0]))
	off := alignUp(base, uintptr(align)) - base
	c.offset = off + uintptr(size)
	return unsafe.Slice(&c.buf[off], size), nil
}

// Allocate is the raw-pointer form of AllocBytes. A zero-size request yields
// a nil pointer and no error.
func (a *Arena) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	b, err := a.AllocBytes(int(size), int(align))
	if err != nil || b == nil {
		return nil, err
	}
	return unsafe.Pointer(&b[0]), nil
}

// Deallocate returns size bytes at p to the arena if and only if they are the
// most recent allocation in the current chunk; otherwise it is a no-op, as
// for any bump allocator.
func (a *Arena) Deallocate(p unsafe.Pointer, size uintptr) {
	a.panicIfReleased()
	if c := a.lastChunkFor(p, size); c != nil {
		c.offset -= size
	}
}

// Grow extends the allocation at p from oldSize to newSize bytes. If p is the
// most recent allocation and the current chunk has room, it grows in place;
// otherwise a new block is allocated and the old contents are copied. The
// returned pointer replaces p. Bytes beyond oldSize are uninitialized.
func (a *Arena) Grow(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error) {
	a.panicIfReleased()
	if newSize <= oldSize {
		return p, nil
	}

	// In-place path: extend the bump offset over the tail of the chunk.
	if c := a.lastChunkFor(p, oldSize); c != nil {
		extra := newSize - oldSize
		if c.offset+extra <= uintptr(len(c.buf)) {
			if err := a.checkLimit(int(extra)); err != nil {
				return nil, err
			}
			c.offset += extra
			return p, nil
		}
	}

	// Copy path. The old block stays behind (bump semantics).
	b, err := a.AllocBytes(int(newSize), int(align))
	if err != nil {
		return nil, err
	}
	copy(b, unsafe.Slice((*byte)(p), oldSize))
	return unsafe.Pointer(&b[0]), nil
}

// GrowZeroed is Grow with the bytes beyond oldSize cleared.
func (a *Arena) GrowZeroed(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error) {
	np, err := a.Grow(p, oldSize, newSize, align)
	if err != nil {
		return nil, err
	}
	if newSize > oldSize {
		clear(unsafe.Slice((*byte)(np), newSize)[oldSize:])
	}
	return np, nil
}

// Shrink reduces the allocation at p from oldSize to newSize bytes. If p is
// the most recent allocation the freed tail is returned to the arena;
// otherwise the block is simply narrowed. Shrink never moves memory.
func (a *Arena) Shrink(p unsafe.Pointer, oldSize, newSize uintptr) unsafe.Pointer {
	a.panicIfReleased()
	if newSize >= oldSize {
		return p
	}
	if c := a.lastChunkFor(p, oldSize); c != nil {
		c.offset -= oldSize - newSize
	}
	return p
}

// Reset makes all arena memory reusable in O(1): the largest chunk is kept
// with its offset rewound to zero, every other chunk is released. Previously
// returned memory must not be used afterwards.
func (a *Arena) Reset() {
	a.panicIfReleased()
	if len(a.chunks) == 0 {
		return
	}
	largest := 0
	for i := range a.chunks {
		if len(a.chunks[i].buf) > len(a.chunks[largest].buf) {
			largest = i
		}
	}
	a.chunks[0] = a.chunks[largest]
	a.chunks = a.chunks[:1]
	a.chunks[0].offset = 0
}

// Release drops every chunk and makes the arena unusable. Any subsequent
// operation panics.
func (a *Arena) Release() {
	a.chunks = nil
	a.released = true
}

// lastChunkFor reports whether [p, p+size) is the most recent allocation in
// the current chunk, returning that chunk if so and nil otherwise.
func (a *Arena) lastChunkFor(p unsafe.Pointer, size uintptr) *chunk {
	n := len(a.chunks)
	if p == nil || size == 0 || n == 0 {
		return nil
	}
	c := &a.chunks[n-1]
	if len(c.buf) == 0 || c.offset < size {
		return nil
	}
	base := uintptr(unsafe.Pointer(&c.buf[0]))
	if uintptr(p)+size == base+c.offset {
		return c
	}
	return nil
}

// checkLimit fails with ErrAllocationLimit if consuming n more bytes would
// exceed the configured ceiling.
func (a *Arena) checkLimit(n int) error {
	if a.limit != NoLimit && a.SizeInUse()+n > a.limit {
		return ErrAllocationLimit
	}
	return nil
}

// grow appends a chunk of at least min bytes, doubling the previous chunk
// size to keep the number of chunks logarithmic.
func (a *Arena) grow(min int) {
	size := minChunkSize
	if n := len(a.chunks); n > 0 {
		size = 2 * len(a.chunks[n-1].buf)
	} else if a.baseSize > size {
		size = a.baseSize
	}
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
}

func (a *Arena) panicIfReleased() {
	if a.released {
		panic("arena: use after Release()")
	}
}

// alignUp rounds off up to the next multiple of align (a power of two).
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}
