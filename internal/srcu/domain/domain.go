// Package domain implements the sleepable grace-period domain.
//
// A Domain lets many readers traverse shared data without locks while
// allowing their critical sections to block, and lets an updater wait until
// every reader section that predates the wait has finished. It combines:
//
//   - per-execution-unit counter pairs (package counter), so Enter/Exit
//     never contend on a shared cache line;
//   - a two-slot epoch/parity scheme (package epoch), so the updater can
//     retire one slot while new readers charge the other;
//   - the non-sleepable quiescence primitive (package quiesce), used as the
//     ordering fence between the updater's phases.
//
// Enter and Exit are lock-free, O(1) and never block. The body of a reader
// section may block for unbounded time; that is the capability this domain
// exists to provide. Wait is the only data-dependent blocking operation,
// bounded by the slowest reader active when it began. A reader that never
// exits stalls every Wait on its domain forever, so owners should scope
// domains narrowly, one per subsystem.
package domain

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/kolkov/srcu/internal/srcu/counter"
	"github.com/kolkov/srcu/internal/srcu/epoch"
	"github.com/kolkov/srcu/internal/srcu/quiesce"
	"github.com/kolkov/srcu/internal/srcu/report"
)

var (
	// ErrActiveReaders is returned by Close when reader sections are still
	// in flight. The domain is left intact and Close may be retried.
	ErrActiveReaders = errors.New("srcu: reader sections still active")

	// ErrClosed is returned by Close when the domain was already closed.
	ErrClosed = errors.New("srcu: domain already closed")

	// ErrNoUnits is returned by NewWithUnits for a non-positive unit count.
	ErrNoUnits = errors.New("srcu: execution unit count must be positive")
)

// Domain is a sleepable grace-period synchronization domain.
//
// Callers own their Domain instances and pass them explicitly; there is no
// process-wide domain. The domain's lifetime must exceed every reader
// section that references it.
type Domain struct {
	// epoch's low bit selects the counter slot new reader sections charge.
	// Mutated only by Wait while holding mu; loaded lock-free by Enter.
	epoch epoch.Atomic

	// mu serializes the grace-period advance sequence. It does not cover
	// the Enter/Exit fast paths.
	mu sync.Mutex

	q        *quiesce.Provider
	counters *counter.Arena

	closed atomic.Bool
}

// New creates a Domain sized to the current GOMAXPROCS.
func New() (*Domain, error) {
	return NewWithUnits(runtime.GOMAXPROCS(0))
}

// NewWithUnits creates a Domain with a fixed number of execution units. The
// unit set never grows; goroutines running on processors beyond it fold onto
// the existing units.
func NewWithUnits(units int) (*Domain, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoUnits, units)
	}
	return &Domain{
		q:        quiesce.New(units),
		counters: counter.NewArena(units),
	}, nil
}

// Enter begins a reader critical section and returns the slot index the
// matching Exit must present. Never blocks and takes no lock. The section
// body between Enter and Exit may block arbitrarily.
//
// Sections nest: each nesting level carries its own index, because a single
// goroutine may hold sections that snapshotted different epochs.
func (d *Domain) Enter() int {
	if d.closed.Load() {
		report.Violation(report.KindUseAfterClose, "Enter on closed domain")
		panic("srcu: Enter on closed domain")
	}
	// The parity read and the increment form one pinned window, so both are
	// attributed to a single execution unit. No fence is needed beyond the
	// slot atomics: the updater observes this unit only through Synchronize.
	unit := d.q.ReadLock()
	idx := d.epoch.Load().Parity()
	d.counters.Add(unit, idx, 1)
	d.q.ReadUnlock(unit)
	return idx
}

// Exit ends a reader critical section. idx must be the exact value the
// matching Enter returned.
//
// The decrement may land on a different execution unit than the increment
// when the goroutine migrated while blocked inside the section; only the
// cross-unit sum matters, and Wait's drain loop polices it.
func (d *Domain) Exit(idx int) {
	if idx != 0 && idx != 1 {
		report.Violation(report.KindBadIndex, "Exit(%d), want 0 or 1", idx)
		panic("srcu: Exit index out of range")
	}
	if d.closed.Load() {
		report.Violation(report.KindUseAfterClose, "Exit(%d) on closed domain", idx)
		panic("srcu: Exit on closed domain")
	}
	unit := d.q.ReadLock()
	d.counters.Add(unit, idx, -1)
	d.q.ReadUnlock(unit)
}

// Wait blocks until every reader section that began before this call was
// issued has executed its matching Exit. Afterwards the caller may reclaim
// anything it unpublished before calling Wait.
//
// There is deliberately no asynchronous variant: an unbounded number of
// in-flight deferred callbacks would let one slow domain exhaust memory,
// while synchronous waiting caps outstanding deferred work at one item per
// updater goroutine.
//
// Concurrent Wait calls serialize on the domain lock, and a call whose
// snapshot a concurrent call has already cycled past returns without its
// own drain, bounding the number of full drain cycles system-wide.
func (d *Domain) Wait() {
	if d.closed.Load() {
		report.Violation(report.KindUseAfterClose, "Wait on closed domain")
		panic("srcu: Wait on closed domain")
	}

	// Phase 1: snapshot, then coalesce. Two epoch advances since the
	// snapshot mean a concurrent updater completed an entire flip-and-drain
	// cycle after it, which already waited out every section predating it.
	start := d.epoch.Load()
	d.mu.Lock()
	if d.epoch.Load().Sub(start) >= 2 {
		d.mu.Unlock()
		return
	}

	// Phase 2: publish. After this fence, any unit that goes on to observe
	// the incremented epoch also observes every write the updater issued
	// before calling Wait. Then flip the active slot.
	d.q.Synchronize()
	e := d.epoch.Load()
	idx := e.Parity()
	d.epoch.Store(e.Successor())

	// Phase 3: drain. The second fence guarantees every unit has observed
	// the flip, so no new reader can land in slot idx; from here the slot's
	// cross-unit sum is non-increasing and zero is permanent.
	d.q.Synchronize()
	var b quiesce.Backoff
	for {
		n := d.counters.Sum(idx)
		if n == 0 {
			break
		}
		if n < 0 {
			report.Violation(report.KindMismatchedIndex,
				"slot %d drain sum = %d at epoch %s", idx, n, d.epoch.Load())
			panic("srcu: reader slot sum went negative")
		}
		b.Wait()
	}

	// Phase 4: bleed-out closure. Exit carries no fence of its own, so a
	// decrement can appear to an external observer to precede the reader's
	// last use of protected data. The third fence forces any such
	// reordering to complete before Wait returns; the lock is released only
	// afterwards, since unlocking earlier would reintroduce the race.
	d.q.Synchronize()
	d.mu.Unlock()
}

// BatchesCompleted returns the current epoch value, for progress observation
// only. It carries no ordering guarantee by itself.
func (d *Domain) BatchesCompleted() uint64 {
	return uint64(d.epoch.Load())
}

// Units returns the number of execution units the domain was sized for.
func (d *Domain) Units() int {
	return d.q.Units()
}

// Close tears the domain down. If any reader section is still in flight it
// records a diagnostic, leaves the domain intact and returns
// ErrActiveReaders: leaking the counters is preferable to freeing memory a
// blocked reader may still load.
//
// The caller must guarantee out of band that no goroutine can begin a new
// Enter once Close starts, for example by unpublishing the domain and
// issuing a Wait on a longer-lived domain first.
func (d *Domain) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed.Load() {
		return ErrClosed
	}
	if n := d.counters.SumBoth(); n != 0 {
		report.TeardownBlocked(n)
		return fmt.Errorf("%w: %d in flight", ErrActiveReaders, n)
	}
	// The arena stays allocated: the closed flag already gates every
	// operation, so a straggler that misses the gate still dies through a
	// reported violation instead of a raw nil dereference, and the memory
	// is reclaimed once the Domain itself becomes unreachable.
	d.closed.Store(true)
	return nil
}
