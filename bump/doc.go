// Package bump provides a shareable handle over per-goroutine bump (arena)
// allocators: many goroutines share one logical allocator while each
// allocates from its own private, unsynchronized arena.
//
// # Quick Start
//
//	b := bump.NewBuilder().
//		ThreadsCapacity(8).
//		BumpCapacity(4096).
//		Build()
//	defer b.Release()
//
//	buf, err := b.Local().AllocBytes(64)
//	if err != nil {
//		// allocation limit exceeded
//	}
//	_ = buf
//
// Hand a handle to another goroutine with Clone; every handle must be
// Released exactly once:
//
//	clone := b.Clone()
//	go func() {
//		defer clone.Release()
//		n, _ := bump.Alloc[int64](clone.Local())
//		*n = 42
//	}()
//
// # Concurrency Model
//
// The hot path — Local() followed by an allocation — touches only the
// calling goroutine's slot: a goroutine-ID read and one lock-free registry
// lookup, then an unsynchronized bump. There are no locks and no contention
// between goroutines.
//
// The one cross-goroutine operation is ResetAll, which rewinds every
// goroutine's arena at once. It is gated on unique ownership: it succeeds
// only when the calling handle is the sole remaining reference, which
// guarantees no other goroutine can be allocating while slots are touched.
// Goroutines that have terminated are detected via their liveness token and
// their slots are evicted entirely instead of reset, so memory does not leak
// as goroutines churn.
//
// # Reset Contract
//
// ResetAll (and Local().Reset()) deallocates in bulk without running any
// cleanup for values previously allocated. The caller must guarantee that no
// memory obtained from the affected arenas is referenced afterwards, exactly
// as with the underlying arena engine's reset.
//
// # API Overview
//
//   - Construction: [New], [NewBuilder]
//   - Sharing: [Bump.Clone], [Bump.Release]
//   - Allocation: [Bump.Local], [Local.AllocBytes], [Alloc], [AllocSlice]
//   - Raw capability surface: [Allocator], implemented by *Bump and *Local
//   - Coordination: [Bump.ResetAll]
//   - Introspection: [Local.Metrics], [Bump.Threads], [GetInfo]
package bump
