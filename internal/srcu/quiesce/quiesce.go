// Package quiesce implements the non-sleepable grace-period primitive the
// sleepable domain is built on.
//
// It tracks short, non-blocking "pinned windows" per execution unit and lets
// a caller wait until every unit has passed through at least one point
// outside such a window. The sleepable domain runs each counter update inside
// a pinned window, and its updater uses Synchronize as the ordering fence
// between grace-period phases: once Synchronize returns, every unit has
// observed all writes issued before the call, because observing a quiescent
// point on a unit orders the call's writes before that unit's next window.
//
// Read-side sections here must never block. That restriction is what keeps
// Synchronize fast: a pinned window is a handful of instructions, so the
// wait loop rarely iterates more than once per unit.
package quiesce

import (
	"sync/atomic"
	"unsafe"
)

// cacheLine is the assumed cache line size in bytes.
const cacheLine = 64

// unitState tracks the read-side activity of one execution unit.
//
// depth counts currently open read-side sections attributed to the unit.
// seq counts completed sections; every ReadUnlock bumps it. Synchronize
// treats a unit as quiescent when depth is zero, or when seq has advanced
// past the value observed while depth was nonzero (the section that was in
// flight has since closed).
type unitState struct {
	depth atomic.Int64
	seq   atomic.Uint64
	_     [cacheLine - unsafe.Sizeof(atomic.Int64{}) - unsafe.Sizeof(atomic.Uint64{})]byte
}

// Provider is the quiescence provider for a fixed set of execution units.
//
// A Provider is created once per domain and shares the domain's lifetime.
// All methods are safe for concurrent use.
type Provider struct {
	units []unitState
}

// New creates a Provider tracking the given number of execution units.
// Panics if units is not positive; the domain constructor validates its
// configuration before calling New.
func New(units int) *Provider {
	if units <= 0 {
		panic("srcu: execution unit count must be positive")
	}
	return &Provider{units: make([]unitState, units)}
}

// Units returns the number of execution units the Provider tracks.
func (p *Provider) Units() int {
	return len(p.units)
}

// ReadLock opens a read-side section and returns the execution unit it is
// attributed to. The calling goroutine is pinned to its scheduling context
// until the matching ReadUnlock, so the section cannot migrate and cannot be
// preempted mid-update. Sections nest; the section body must not block.
//
//go:nosplit
func (p *Provider) ReadLock() int {
	pid := runtimeProcPin()
	// GOMAXPROCS can be raised after the Provider is sized; fold any excess
	// ids onto the fixed unit set. Two pinned goroutines may then share a
	// unit, which the atomics tolerate.
	unit := pid % len(p.units)
	p.units[unit].depth.Add(1)
	return unit
}

// ReadUnlock closes the read-side section opened by the ReadLock that
// returned unit, then unpins the goroutine.
//
//go:nosplit
func (p *Provider) ReadUnlock(unit int) {
	s := &p.units[unit]
	s.seq.Add(1)
	if s.depth.Add(-1) < 0 {
		runtimeProcUnpin()
		panic("srcu: ReadUnlock without matching ReadLock")
	}
	runtimeProcUnpin()
}

// Synchronize blocks until every execution unit has, since the call began,
// been observed at least once outside any read-side section.
//
// Because read-side sections are non-blocking pinned windows, the wait per
// unit is bounded by the longest such window; the backoff loop exists only
// for the rare case of catching a unit mid-window. The seq-cst atomics on
// depth and seq give the call full-fence semantics with respect to every
// participating unit.
func (p *Provider) Synchronize() {
	for i := range p.units {
		s := &p.units[i]
		if s.depth.Load() == 0 {
			continue
		}
		// The unit is inside a section. Wait for that section (or a later
		// one) to close: any seq advance, or depth draining to zero, proves
		// the unit passed a quiescent point after our snapshot.
		snap := s.seq.Load()
		var b Backoff
		for s.depth.Load() != 0 && s.seq.Load() == snap {
			b.Wait()
		}
	}
}
