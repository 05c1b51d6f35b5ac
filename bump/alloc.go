package bump

import "unsafe"

// Allocator is the raw allocation capability surface. Both *Bump and *Local
// satisfy it; the Bump methods forward to the calling goroutine's slot, so a
// handle can be passed wherever a generic allocator is expected.
//
// align is always a power of two. Errors are the arena engine's own
// (ErrAllocationLimit), never reinterpreted.
type Allocator interface {
	Allocate(size, align uintptr) (unsafe.Pointer, error)
	Deallocate(p unsafe.Pointer, size, align uintptr)
	Grow(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error)
	GrowZeroed(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error)
	Shrink(p unsafe.Pointer, oldSize, newSize, align uintptr) unsafe.Pointer
}

var (
	_ Allocator = (*Bump)(nil)
	_ Allocator = (*Local)(nil)
)

// Allocate forwards to the calling goroutine's slot.
func (b *Bump) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	return b.Local().Allocate(size, align)
}

// Deallocate forwards to the calling goroutine's slot.
func (b *Bump) Deallocate(p unsafe.Pointer, size, align uintptr) {
	b.Local().Deallocate(p, size, align)
}

// Grow forwards to the calling goroutine's slot.
func (b *Bump) Grow(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error) {
	return b.Local().Grow(p, oldSize, newSize, align)
}

// GrowZeroed forwards to the calling goroutine's slot.
func (b *Bump) GrowZeroed(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error) {
	return b.Local().GrowZeroed(p, oldSize, newSize, align)
}

// Shrink forwards to the calling goroutine's slot.
func (b *Bump) Shrink(p unsafe.Pointer, oldSize, newSize, align uintptr) unsafe.Pointer {
	return b.Local().Shrink(p, oldSize, newSize, align)
}

// Alloc returns a zeroed *T stored in the slot's arena.
//
// The pointer is valid until the arena is reset or released. Values that
// themselves contain pointers must keep their referents reachable elsewhere:
// arena chunks are untyped bytes and the garbage collector does not scan
// them.
func Alloc[T any](l *Local) (*T, error) {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return new(T), nil
	}
	p, err := l.Allocate(size, unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	clear(unsafe.Slice((*byte)(p), size))
	return (*T)(p), nil
}

// AllocSlice returns a zeroed slice of n elements of T stored in the slot's
// arena. Returns nil for n <= 0. The same pointer-reachability caveat as
// Alloc applies.
func AllocSlice[T any](l *Local, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return make([]T, n), nil
	}
	p, err := l.Allocate(size*uintptr(n), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	clear(unsafe.Slice((*byte)(p), size*uintptr(n)))
	return unsafe.Slice((*T)(p), n), nil
}
