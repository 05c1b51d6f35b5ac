// Copyright 2025 The bumplocal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package liveness tracks whether goroutines that registered themselves are
// still running.
//
// Each goroutine that touches a bump handle gets exactly one Token, shared
// across every handle that goroutine ever uses. Go has no goroutine-exit
// hook, so a token is not flipped by the dying goroutine itself: a sweep
// parses runtime.Stack(buf, true) output — a stop-the-world snapshot of all
// live goroutines — and marks the token of every registered goroutine that is
// absent from it. The runtime orders a goroutine's termination after all of
// its writes, and the token flip is an atomic store, so any reader that
// observes a dead token also observes everything the goroutine wrote before
// it exited.
//
// Sweeps run synchronously before every coordinated reset and, amortized, in
// the background once per sweepInterval registrations.
package liveness

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// sweepInterval is the number of token registrations between background
// sweeps. Registration happens once per (goroutine, process), so sweeps are
// rare; the interval only bounds how long dead entries linger between
// explicit sweeps.
const sweepInterval = 256

// Token is an atomically readable liveness flag for one goroutine.
//
// The zero value reads alive. A token transitions alive→dead at most once
// and never back: goroutine IDs are unique for the life of the process, so a
// dead goroutine's ID can never be observed running again.
type Token struct {
	dead atomic.Bool
}

// Alive reports whether the owning goroutine was still running as of the
// last sweep. Dead is authoritative; alive may be stale until the next
// sweep runs.
func (t *Token) Alive() bool {
	return !t.dead.Load()
}

// entry pairs a token with its registration sequence number. The sequence
// lets a sweep skip tokens registered after its live-set snapshot was taken
// (see Sweep).
type entry struct {
	tok *Token
	seq uint64
}

var (
	// tokens maps goroutine ID -> *entry for every registered goroutine.
	// sync.Map: registrations are once-per-goroutine writes, liveness reads
	// and sweeps dominate.
	tokens sync.Map

	// regSeq numbers registrations; compared against a sweep's cutoff.
	regSeq atomic.Uint64

	// regCount triggers the amortized background sweep.
	regCount atomic.Uint32
)

// Current returns the calling goroutine's Token, registering it lazily on
// first use. The same token is returned for the goroutine's whole lifetime,
// no matter how many handles it touches.
func Current() *Token {
	gid := goid.Get()
	if v, ok := tokens.Load(gid); ok {
		return v.(*entry).tok
	}
	return register(gid)
}

// register is the cold path of Current.
func register(gid int64) *Token {
	e := &entry{tok: new(Token), seq: regSeq.Add(1)}
	if v, loaded := tokens.LoadOrStore(gid, e); loaded {
		return v.(*entry).tok
	}
	if regCount.Add(1)%sweepInterval == 0 {
		// Amortized cleanup so dead entries do not accumulate forever in
		// programs that never reset. Sweeps are idempotent and safe to run
		// concurrently, so firing one in the background is fine.
		go Sweep()
	}
	return e.tok
}

// Sweep marks dead every registered goroutine that is absent from a fresh
// stop-the-world goroutine dump, and drops its registry entry (goroutine IDs
// are never reused, so the entry can never become live again).
//
// A goroutine spawned after the dump was taken is alive but missing from it.
// Killing its token would be wrong, so Sweep only judges tokens registered
// before the dump: cutoff is read first, and entries with a later sequence
// number are left for the next sweep.
func Sweep() {
	cutoff := regSeq.Load()

	live := liveGIDs()
	liveSet := make(map[int64]struct{}, len(live))
	for _, gid := range live {
		liveSet[gid] = struct{}{}
	}

	tokens.Range(func(key, value any) bool {
		e := value.(*entry)
		if e.seq > cutoff {
			return true // registered after the snapshot; judge next time
		}
		if _, ok := liveSet[key.(int64)]; !ok {
			e.tok.dead.Store(true)
			tokens.Delete(key)
		}
		return true
	})
}

// Registered returns the number of goroutines currently registered. Exposed
// for tests and introspection.
func Registered() int {
	n := 0
	tokens.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
