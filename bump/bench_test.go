package bump_test

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/kolkov/bumplocal/bump"
	"github.com/kolkov/bumplocal/internal/bump/arena"
)

type small struct {
	_ uint8
}

type big struct {
	_ [32]uintptr
}

const allocations = 10_000

var sink unsafe.Pointer

// benchBumpLocal allocates through the handle's goroutine-local slot, the
// intended hot path.
func benchBumpLocal[T any](b *testing.B) {
	var zero T
	size := unsafe.Sizeof(zero)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h := bump.NewBuilder().BumpCapacity(allocations * int(size)).Build()
		for j := 0; j < allocations; j++ {
			v, err := bump.Alloc[T](h.Local())
			if err != nil {
				b.Fatal(err)
			}
			sink = unsafe.Pointer(v)
		}
		h.Release()
	}
}

// benchMutexArena is the approach bumplocal exists to beat: one shared arena
// behind a mutex. Lock/unlock costs on every allocation even without
// contention.
func benchMutexArena[T any](b *testing.B) {
	var zero T
	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var mu sync.Mutex
		a := arena.New(allocations*int(size), arena.NoLimit)
		for j := 0; j < allocations; j++ {
			mu.Lock()
			p, err := a.Allocate(size, align)
			mu.Unlock()
			if err != nil {
				b.Fatal(err)
			}
			sink = p
		}
	}
}

// benchRuntimeNew is the baseline: the regular Go heap.
func benchRuntimeNew[T any](b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for j := 0; j < allocations; j++ {
			sink = unsafe.Pointer(new(T))
		}
	}
}

func BenchmarkBumpLocalSmall(b *testing.B) { benchBumpLocal[small](b) }
func BenchmarkBumpLocalBig(b *testing.B)   { benchBumpLocal[big](b) }
func BenchmarkMutexArenaSmall(b *testing.B) { benchMutexArena[small](b) }
func BenchmarkMutexArenaBig(b *testing.B)   { benchMutexArena[big](b) }
func BenchmarkRuntimeNewSmall(b *testing.B) { benchRuntimeNew[small](b) }
func BenchmarkRuntimeNewBig(b *testing.B)   { benchRuntimeNew[big](b) }

// BenchmarkLocalParallel measures the contention-free claim: goroutines
// allocating through clones of one handle never touch each other's slots.
func BenchmarkLocalParallel(b *testing.B) {
	h := bump.NewBuilder().BumpCapacity(1 << 20).Build()
	defer h.Release()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		l := h.Local()
		n := 0
		for pb.Next() {
			buf, _ := l.AllocBytes(64)
			buf[0] = 1
			// Rewind periodically so the arena does not grow without bound.
			if n++; n == 16384 {
				l.Reset()
				n = 0
			}
		}
	})
}
