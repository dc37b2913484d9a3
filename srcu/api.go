// Package srcu provides the public API for the sleepable grace-period
// synchronization domain.
//
// See doc.go for detailed documentation and examples.
package srcu

import (
	"errors"

	"github.com/kolkov/srcu/internal/srcu/domain"
)

var (
	// ErrActiveReaders is returned by Close when reader sections are still
	// in flight. The domain is left intact and Close may be retried once
	// the readers have exited.
	ErrActiveReaders = domain.ErrActiveReaders

	// ErrClosed is returned by Close when the domain was already closed.
	ErrClosed = domain.ErrClosed

	// ErrNoUnits is returned by NewWithUnits for a non-positive unit count.
	ErrNoUnits = domain.ErrNoUnits
)

// Domain is a sleepable grace-period synchronization domain.
//
// Readers bracket lock-free traversals of shared data with Enter and Exit
// and may block arbitrarily in between. An updater unpublishes a data item,
// calls Wait, and reclaims the item once Wait returns. A zero Domain is not
// usable; create one with New or NewWithUnits.
//
// Scope domains narrowly, one per subsystem: a reader that never exits
// stalls every Wait on its domain forever, and narrow scoping keeps such a
// bug from stalling unrelated subsystems.
type Domain struct {
	d *domain.Domain
}

// New creates a Domain sized to the current GOMAXPROCS.
//
// Example:
//
//	dom, err := srcu.New()
//	if err != nil {
//		return err
//	}
//	defer dom.Close()
func New() (*Domain, error) {
	d, err := domain.New()
	if err != nil {
		return nil, err
	}
	return &Domain{d: d}, nil
}

// NewWithUnits creates a Domain with a fixed number of execution units.
// Most callers should use New; a smaller unit count trades reader-side
// sharding for cheaper grace-period scans.
func NewWithUnits(units int) (*Domain, error) {
	d, err := domain.NewWithUnits(units)
	if err != nil {
		return nil, err
	}
	return &Domain{d: d}, nil
}

// Enter begins a reader critical section and returns the slot index that
// the matching Exit call must receive. It is lock-free, O(1) and never
// blocks; the section body may block for unbounded time.
//
// Sections nest, each level carrying its own index:
//
//	outer := dom.Enter()
//	inner := dom.Enter()
//	// ...
//	dom.Exit(inner)
//	dom.Exit(outer)
func (d *Domain) Enter() int {
	return d.d.Enter()
}

// Exit ends the reader critical section whose Enter returned idx. Passing
// any other value is a protocol violation: it is reported to the diagnostic
// sink and panics rather than silently corrupting the drain accounting.
func (d *Domain) Exit(idx int) {
	d.d.Exit(idx)
}

// Wait blocks until every reader section that began before this call was
// issued has exited. On return the caller may immediately reclaim any data
// it unpublished before calling Wait:
//
//	old := cfg.Swap(newCfg) // unpublish
//	dom.Wait()              // all sections that could see old have exited
//	old.Release()           // reclaim
//
// Wait establishes a happens-before edge from every write issued before it
// was called to every read inside a section that starts after it returns.
// Sections that begin after Wait's internal epoch flip are not waited for.
func (d *Domain) Wait() {
	d.d.Wait()
}

// BatchesCompleted returns the domain's current epoch value, for progress
// observation only; it carries no ordering guarantee by itself.
func (d *Domain) BatchesCompleted() uint64 {
	return d.d.BatchesCompleted()
}

// Units returns the number of execution units the domain was sized for.
func (d *Domain) Units() int {
	return d.d.Units()
}

// Close tears the domain down. With reader sections still in flight it
// records a diagnostic, returns ErrActiveReaders and leaves the domain
// intact (a bounded leak beats a stale read of freed memory). The caller
// must ensure no new Enter can begin once Close starts.
func (d *Domain) Close() error {
	return d.d.Close()
}

// IsRetryable reports whether a Close error indicates the domain can be
// closed again later, i.e. the failure was active readers rather than a
// repeated Close.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrActiveReaders)
}
