package liveness

import (
	"runtime"
	"testing"
	"time"
)

func TestTokenZeroValueAlive(t *testing.T) {
	var tok Token
	if !tok.Alive() {
		t.Error("zero-value Token reads dead, want alive")
	}
}

func TestCurrentStablePerGoroutine(t *testing.T) {
	first := Current()
	second := Current()
	if first != second {
		t.Errorf("Current() returned different tokens for the same goroutine: %p != %p", first, second)
	}
}

func TestCurrentDistinctAcrossGoroutines(t *testing.T) {
	mine := Current()

	ch := make(chan *Token)
	go func() {
		ch <- Current()
	}()
	theirs := <-ch

	if mine == theirs {
		t.Error("two goroutines share one token")
	}
}

// TestSweepMarksDeadGoroutine is the happens-before property: after the
// goroutine has terminated and a sweep has observed that, every reader of
// the token sees dead.
func TestSweepMarksDeadGoroutine(t *testing.T) {
	ch := make(chan *Token)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch <- Current()
	}()
	tok := <-ch
	<-done

	// The goroutine has returned, but the runtime may need a moment to
	// retire it from the all-goroutines dump. Sweep until it disappears.
	deadline := time.Now().Add(5 * time.Second)
	for tok.Alive() && time.Now().Before(deadline) {
		Sweep()
		runtime.Gosched()
	}

	if tok.Alive() {
		t.Fatal("token of a terminated goroutine still reads alive after sweeping")
	}
}

func TestSweepSparesLiveGoroutine(t *testing.T) {
	ch := make(chan *Token)
	release := make(chan struct{})
	go func() {
		ch <- Current()
		<-release
	}()
	tok := <-ch

	Sweep()

	if !tok.Alive() {
		t.Error("sweep killed the token of a live goroutine")
	}
	close(release)
}

func TestSweepPrunesDeadEntries(t *testing.T) {
	before := Registered()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Current()
	}()
	<-done

	deadline := time.Now().Add(5 * time.Second)
	for Registered() > before && time.Now().Before(deadline) {
		Sweep()
		runtime.Gosched()
	}

	if got := Registered(); got > before {
		t.Errorf("Registered() = %d after sweep, want <= %d", got, before)
	}
}
