package bump

import "github.com/kolkov/bumplocal/internal/bump/arena"

// Builder configures a Bump allocator. Zero value is usable and matches
// New(): no pre-reserved capacity, no allocation limit.
type Builder struct {
	bumpCapacity int
	allocLimit   int
	hasLimit     bool
}

// NewBuilder returns a builder with default configuration.
func NewBuilder() *Builder {
	return &Builder{}
}

// ThreadsCapacity hints how many goroutines are expected to use the
// allocator. It never limits anything, and the slot registry currently
// sizes itself dynamically, so the hint is inert; the option exists so
// callers can state intent and stay source-compatible should the registry
// ever become pre-sized.
func (b *Builder) ThreadsCapacity(int) *Builder {
	return b
}

// BumpCapacity sets the initial byte capacity reserved for each goroutine's
// arena on first touch.
func (b *Builder) BumpCapacity(n int) *Builder {
	b.bumpCapacity = n
	return b
}

// BumpAllocationLimit sets a per-goroutine arena allocation ceiling. Once a
// goroutine's arena has handed out this many bytes, further allocations on
// that goroutine fail with ErrAllocationLimit until the arena is reset.
func (b *Builder) BumpAllocationLimit(n int) *Builder {
	b.allocLimit = n
	b.hasLimit = true
	return b
}

// Build constructs the allocator. The returned handle counts as one
// reference and must eventually be Released.
func (b *Builder) Build() *Bump {
	limit := arena.NoLimit
	if b.hasLimit {
		limit = b.allocLimit
	}
	s := &shared{
		capacity: b.bumpCapacity,
		limit:    limit,
	}
	s.refs.Store(1)
	return &Bump{inner: s}
}
