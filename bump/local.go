package bump

import (
	"unsafe"

	"github.com/kolkov/bumplocal/internal/bump/arena"
	"github.com/kolkov/bumplocal/internal/bump/liveness"
)

// Local is one goroutine's allocator slot: either empty or an initialized
// arena paired with the owning goroutine's liveness token.
//
// A Local is mutated only by the goroutine it belongs to — it is reachable
// only through Local() on that goroutine — with one exception: the reset
// coordinator may touch it while holding the sole remaining handle, which
// guarantees the owner cannot be allocating concurrently.
type Local struct {
	arena *arena.Arena
	alive *liveness.Token
}

// needsInit reports whether the slot has never been filled. Checked on every
// Local() call; a single nil comparison.
func (l *Local) needsInit() bool {
	return l.arena == nil
}

// init fills the slot with a fresh arena and the calling goroutine's
// liveness token. Cold path: first touch only.
func (l *Local) init(capacity, limit int, tok *liveness.Token) {
	l.arena = arena.New(capacity, limit)
	l.alive = tok
}

// clear is the reset coordinator's decision point. A slot whose owner is
// still alive is reset in place, keeping its capacity for reuse; a slot
// whose owner has terminated is emptied entirely so its memory can be
// reclaimed. Reports whether the slot was evicted. Empty slots are left
// alone.
func (l *Local) clear() bool {
	if l.arena == nil {
		return false
	}
	if l.alive.Alive() {
		l.arena.Reset()
		return false
	}
	l.arena = nil
	l.alive = nil
	return true
}

// AllocBytes returns n bytes carved out of this goroutine's arena, aligned
// for any Go scalar. The memory is not zeroed. Fails only when the
// configured allocation limit would be exceeded.
func (l *Local) AllocBytes(n int) ([]byte, error) {
	return l.arena.AllocBytes(n, int(unsafe.Sizeof(uintptr(0))))
}

// Reset rewinds this goroutine's arena in place, making its backing memory
// reusable in O(1). The caller must ensure nothing allocated from the slot
// is referenced afterwards.
func (l *Local) Reset() {
	l.arena.Reset()
}

// ChunkCapacity returns the contiguous bytes still available in the arena's
// current chunk before it must grow.
func (l *Local) ChunkCapacity() int {
	return l.arena.ChunkCapacity()
}

// Metrics is a point-in-time snapshot of one slot's arena statistics.
type Metrics struct {
	SizeInUse     int     // bytes currently consumed, padding included
	Capacity      int     // total backing capacity in bytes
	ChunkCapacity int     // contiguous bytes left in the current chunk
	NumChunks     int     // number of backing chunks
	Utilization   float64 // SizeInUse / Capacity, 0 when empty
}

// Metrics returns a snapshot of the slot's arena statistics.
func (l *Local) Metrics() Metrics {
	m := l.arena.Snapshot()
	return Metrics{
		SizeInUse:     m.SizeInUse,
		Capacity:      m.Capacity,
		ChunkCapacity: m.ChunkCapacity,
		NumChunks:     m.NumChunks,
		Utilization:   m.Utilization,
	}
}

// Allocate returns a pointer to size bytes aligned to align (a power of
// two). Errors are the arena engine's own, surfaced verbatim.
func (l *Local) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	return l.arena.Allocate(size, align)
}

// Deallocate returns the block at p to the arena if it was the most recent
// allocation; otherwise it is a no-op, as for any bump allocator.
func (l *Local) Deallocate(p unsafe.Pointer, size, align uintptr) {
	_ = align
	l.arena.Deallocate(p, size)
}

// Grow extends the block at p from oldSize to newSize bytes, in place when p
// is the most recent allocation, by allocate-and-copy otherwise. The
// returned pointer replaces p; bytes beyond oldSize are uninitialized.
func (l *Local) Grow(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error) {
	return l.arena.Grow(p, oldSize, newSize, align)
}

// GrowZeroed is Grow with the bytes beyond oldSize cleared.
func (l *Local) GrowZeroed(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error) {
	return l.arena.GrowZeroed(p, oldSize, newSize, align)
}

// Shrink narrows the block at p to newSize bytes, returning the freed tail
// to the arena when p is the most recent allocation. Never moves memory.
func (l *Local) Shrink(p unsafe.Pointer, oldSize, newSize, align uintptr) unsafe.Pointer {
	_ = align
	return l.arena.Shrink(p, oldSize, newSize)
}
