package bump

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/kolkov/bumplocal/internal/bump/liveness"
)

// Bump is a shareable handle to a set of goroutine-local bump allocators.
//
// Every goroutine that calls Local through any handle of the same allocator
// gets its own private arena; allocation never takes a lock and never
// contends with other goroutines. Handles are shared explicitly: Clone
// creates a new reference for another goroutine, Release drops one. The
// reference count gates ResetAll, which is the only operation that touches
// slots across goroutines.
type Bump struct {
	inner *shared
}

// shared is the reference-counted state behind every clone of a handle: the
// per-goroutine slot registry plus the immutable allocation configuration.
type shared struct {
	// locals maps goroutine ID -> *Local. Distinct goroutines insert
	// concurrently on first touch; iteration happens only under the
	// exclusive-ownership gate in ResetAll.
	locals sync.Map

	// refs counts live handles. ResetAll requires refs == 1.
	refs atomic.Int64

	// Immutable after construction.
	capacity int // initial arena capacity per goroutine, bytes
	limit    int // per-arena allocation ceiling, arena.NoLimit for none
}

// New returns an allocator with default configuration: no pre-reserved
// capacity and no allocation limit. Use NewBuilder to configure.
func New() *Bump {
	return NewBuilder().Build()
}

// Clone returns a new handle to the same allocator, incrementing the
// reference count. The clone is what you hand to another goroutine.
func (b *Bump) Clone() *Bump {
	b.inner.refs.Add(1)
	return &Bump{inner: b.inner}
}

// Release drops this handle's reference. It must be called exactly once per
// handle (including the one returned by New/Build). When the last reference
// is dropped all goroutine slots are discarded so arena memory can be
// reclaimed promptly. The handle must not be used afterwards.
func (b *Bump) Release() {
	s := b.inner
	b.inner = nil
	if s.refs.Add(-1) == 0 {
		s.locals.Clear()
	}
}

// Local returns the calling goroutine's allocator slot, lazily registering
// and initializing it on first use. It never fails: initialization only
// allocates slot bookkeeping plus an empty arena.
//
// For a given handle, repeated calls from the same goroutine return the same
// slot. The slot must not be handed to another goroutine.
func (b *Bump) Local() *Local {
	s := b.inner
	gid := goid.Get()
	if v, ok := s.locals.Load(gid); ok {
		l := v.(*Local)
		if l.needsInit() {
			l.init(s.capacity, s.limit, liveness.Current())
		}
		return l
	}
	return s.newLocal(gid)
}

// newLocal is the cold first-touch path: register an empty slot for gid,
// then fill it. LoadOrStore keeps concurrent first touches by distinct
// goroutines safe; only the owning goroutine ever initializes its slot.
func (s *shared) newLocal(gid int64) *Local {
	l := new(Local)
	if v, loaded := s.locals.LoadOrStore(gid, l); loaded {
		l = v.(*Local)
	}
	if l.needsInit() {
		l.init(s.capacity, s.limit, liveness.Current())
	}
	return l
}

// ResetAll resets every goroutine's arena, deallocating all previously
// allocated memory in O(slots).
//
// It succeeds only when the calling handle is the sole remaining reference
// (checked atomically at call time); otherwise it returns
// ErrOutstandingHandles and mutates nothing. The gate is what makes the walk
// safe: with one reference left, no other goroutine can be allocating
// through a clone while slots are touched.
//
// Slots whose owning goroutine is still alive are reset in place, keeping
// their backing capacity for reuse. Slots whose owner has terminated are
// evicted entirely — the goroutine can never return for them, so keeping the
// memory would leak as goroutines churn. Slots never initialized are
// skipped.
//
// Like the underlying arena reset, this does not run any cleanup for values
// previously allocated; the caller must guarantee no allocated memory is
// referenced after the reset.
func (b *Bump) ResetAll() error {
	s := b.inner
	if s.refs.Load() != 1 {
		return ErrOutstandingHandles
	}

	// Refresh liveness before judging slots, so goroutines that terminated
	// since the last sweep are evicted rather than reset.
	liveness.Sweep()

	s.locals.Range(func(key, value any) bool {
		if value.(*Local).clear() {
			// Evicted: goroutine IDs are never reused, so the registry
			// entry can never be re-filled. Drop it.
			s.locals.Delete(key)
		}
		return true
	})
	return nil
}

// Threads returns the number of goroutine slots currently registered with
// this allocator, initialized or not.
func (b *Bump) Threads() int {
	n := 0
	b.inner.locals.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// Handles returns the current reference count. Exposed for introspection;
// the value is immediately stale unless the caller controls all clones.
func (b *Bump) Handles() int64 {
	return b.inner.refs.Load()
}
