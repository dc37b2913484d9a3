package counter

import (
	"sync"
	"testing"
	"unsafe"
)

// TestPairPadding tests that each Pair occupies exactly one cache line, so
// adjacent units never share a line.
func TestPairPadding(t *testing.T) {
	if got := unsafe.Sizeof(Pair{}); got != cacheLine {
		t.Errorf("unsafe.Sizeof(Pair{}) = %d, want %d", got, cacheLine)
	}
}

// TestAddAndSum tests per-unit accounting and cross-unit sums.
func TestAddAndSum(t *testing.T) {
	a := NewArena(4)
	if got := a.Units(); got != 4 {
		t.Fatalf("Units() = %d, want 4", got)
	}

	a.Add(0, 0, 1)
	a.Add(1, 0, 1)
	a.Add(2, 1, 1)

	if got := a.Sum(0); got != 2 {
		t.Errorf("Sum(0) = %d, want 2", got)
	}
	if got := a.Sum(1); got != 1 {
		t.Errorf("Sum(1) = %d, want 1", got)
	}
	if got := a.SumBoth(); got != 3 {
		t.Errorf("SumBoth() = %d, want 3", got)
	}
}

// TestMigratedExit tests that a decrement landing on a different unit than
// the matching increment still zeroes the cross-unit sum. Per-unit values
// may legitimately go negative in that case.
func TestMigratedExit(t *testing.T) {
	a := NewArena(2)

	a.Add(0, 1, 1)  // Enter attributed to unit 0
	a.Add(1, 1, -1) // Exit attributed to unit 1 after migration

	if got := a.Sum(1); got != 0 {
		t.Errorf("Sum(1) = %d, want 0 after migrated exit", got)
	}
	if got := a.pairs[1].slot[1].Load(); got != -1 {
		t.Errorf("unit 1 slot 1 = %d, want -1", got)
	}
}

// TestConcurrentAdd tests that concurrent increments and decrements across
// units balance out to a zero sum.
func TestConcurrentAdd(t *testing.T) {
	const (
		units   = 8
		workers = 16
		rounds  = 1000
	)

	a := NewArena(units)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				unit := (w + i) % units
				idx := i & 1
				a.Add(unit, idx, 1)
				a.Add(unit, idx, -1)
			}
		}(w)
	}
	wg.Wait()

	if got := a.SumBoth(); got != 0 {
		t.Errorf("SumBoth() = %d after balanced adds, want 0", got)
	}
}
