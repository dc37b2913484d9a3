// Package counter implements the per-execution-unit counter pairs that track
// in-flight reader sections for the sleepable grace-period domain.
//
// Every execution unit owns a Pair of signed counters, one per epoch parity.
// A reader's Enter increments exactly one slot of its unit's pair; the
// matching Exit decrements the same slot, possibly on a different unit if the
// goroutine migrated while blocked inside the section. Individual per-unit
// slots may therefore dip below zero; only the cross-unit Sum is meaningful,
// and under correct use it is always >= 0.
//
// Pairs are padded to a cache line so that units incrementing concurrently
// never share a line (no false sharing on the Enter/Exit fast path).
package counter

import (
	"sync/atomic"
	"unsafe"
)

// cacheLine is the assumed cache line size in bytes. 64 covers the common
// architectures; oversizing merely wastes a little padding.
const cacheLine = 64

// Pair holds the two reader counters for one execution unit, one per epoch
// parity. Slots are accessed with atomics: the owning unit increments and
// decrements them while pinned, and the updater sums them cross-unit during
// the drain phase without any lock.
type Pair struct {
	slot [2]atomic.Int64
	_    [cacheLine - 2*unsafe.Sizeof(atomic.Int64{})]byte
}

// Arena is a fixed collection of Pairs indexed by execution-unit id. It is
// sized once at domain creation and never resized; resizing would race with
// lock-free readers indexing into it.
type Arena struct {
	pairs []Pair
}

// NewArena allocates an arena with one Pair per execution unit. units must
// be positive; the caller validates it.
func NewArena(units int) *Arena {
	return &Arena{pairs: make([]Pair, units)}
}

// Units returns the number of execution units the arena was sized for.
func (a *Arena) Units() int {
	return len(a.pairs)
}

// Add adjusts slot idx of the given unit by delta and returns the new
// per-unit value. The caller must be pinned to the unit for the duration of
// the call so the update is attributed to a single execution unit.
//
//go:nosplit
func (a *Arena) Add(unit, idx int, delta int64) int64 {
	return a.pairs[unit].slot[idx].Add(delta)
}

// Sum returns the cross-unit total for slot idx.
//
// Called only by the updater after the epoch flip and the second quiescence
// wait, at which point no new reader can land in slot idx, so the total is
// non-increasing and a zero result is permanent for the retired epoch.
func (a *Arena) Sum(idx int) int64 {
	var n int64
	for i := range a.pairs {
		n += a.pairs[i].slot[idx].Load()
	}
	return n
}

// SumBoth returns the cross-unit total over both slots. Used by teardown to
// check that no reader section is still in flight.
func (a *Arena) SumBoth() int64 {
	return a.Sum(0) + a.Sum(1)
}
