// Package epoch implements the grace-period epoch counter for the sleepable
// grace-period domain.
//
// An Epoch is a monotonically increasing 64-bit value whose low bit selects
// which counter slot new reader sections charge. Advancing the epoch by one
// flips the active slot; advancing it by two or more means at least one full
// grace-period cycle has completed since an earlier snapshot, which is the
// condition the updater fast path tests.
package epoch

import (
	"strconv"
	"sync/atomic"
)

// Epoch is a monotonically increasing grace-period counter. Its low bit is
// the parity index selecting the active counter slot.
//
// Example: epoch 7 has parity 1, so reader sections entering at epoch 7
// increment slot 1 of their execution unit's counter pair.
type Epoch uint64

// Parity returns the counter-slot index (0 or 1) selected by this epoch.
//
// This is the value a reader's Enter records and its matching Exit must
// present again, so nested sections spanning an epoch flip decrement the
// slot they actually incremented.
//
//go:nosplit
func (e Epoch) Parity() int {
	return int(e & 1)
}

// Successor returns the epoch after this one. Advancing to the successor
// flips which slot future reader sections use.
//
//go:nosplit
func (e Epoch) Successor() Epoch {
	return e + 1
}

// Sub returns how far this epoch has advanced past start.
//
// The updater fast path returns immediately when Sub(start) >= 2: two
// advances mean a concurrent updater completed an entire flip-and-drain
// cycle after start was snapshotted, so every reader section predating the
// snapshot has already been waited for.
//
//go:nosplit
func (e Epoch) Sub(start Epoch) uint64 {
	return uint64(e - start)
}

// String returns a human-readable representation, e.g. "7(slot 1)".
// Used only for diagnostics and test output, never on the hot path.
func (e Epoch) String() string {
	return strconv.FormatUint(uint64(e), 10) + "(slot " + strconv.Itoa(e.Parity()) + ")"
}

// Atomic is an Epoch with atomic load/store access.
//
// The domain mutates its epoch only while holding the grace-period lock, but
// reader sections load it lock-free on every Enter, so all access goes
// through atomics. The zero value is epoch 0.
type Atomic struct {
	v atomic.Uint64
}

// Load returns the current epoch.
//
//go:nosplit
func (a *Atomic) Load() Epoch {
	return Epoch(a.v.Load())
}

// Store sets the current epoch. The caller must hold the domain's
// grace-period lock; the epoch must never move backwards.
func (a *Atomic) Store(e Epoch) {
	a.v.Store(uint64(e))
}
