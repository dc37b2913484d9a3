// Package report is the diagnostic sink for the sleepable grace-period
// domain.
//
// The domain never logs on its fast paths; diagnostics are emitted only for
// programmer errors (protocol violations) and for teardown attempts that
// find reader sections still in flight. Output goes to os.Stderr by default
// and can be redirected with SetOutput or, at process start, with the
// SRCU_LOG environment variable naming a file to append to.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Violation kinds, used both in report text and by tests asserting on the
// emitted diagnostics.
const (
	// KindMismatchedIndex indicates an Exit whose slot index does not match
	// any outstanding Enter (drain sum went negative).
	KindMismatchedIndex = "mismatched enter/exit index"

	// KindUseAfterClose indicates an operation on a domain after Close
	// succeeded.
	KindUseAfterClose = "use of closed domain"

	// KindBadIndex indicates an Exit called with an index outside {0, 1}.
	KindBadIndex = "exit index out of range"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr

	violations atomic.Uint64
	teardowns  atomic.Uint64
)

func init() {
	path := os.Getenv("SRCU_LOG")
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "srcu: cannot open SRCU_LOG file %q: %v\n", path, err)
		return
	}
	out = f
}

// SetOutput redirects diagnostics to w. Passing nil restores os.Stderr.
// Safe for concurrent use; intended for tests and embedders that collect
// diagnostics themselves.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// Violation reports a protocol violation. These are programmer errors: the
// caller typically panics right after reporting, but the report ensures the
// failure mode is named before the panic unwinds.
func Violation(kind, format string, args ...any) {
	violations.Add(1)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, "==================")
	fmt.Fprintf(out, "SRCU: protocol violation: %s\n", kind)
	fmt.Fprintf(out, "  %s\n", fmt.Sprintf(format, args...))
	fmt.Fprintln(out, "==================")
}

// TeardownBlocked reports a Close that found active readers and therefore
// refused to release the domain's counters. Leaking the counters is
// deliberate: freeing memory a blocked reader may still load is far worse
// than a bounded leak.
func TeardownBlocked(active int64) {
	teardowns.Add(1)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, "==================")
	fmt.Fprintf(out, "SRCU: teardown blocked: %d reader section(s) still in flight\n", active)
	fmt.Fprintln(out, "  domain left intact; counters leak until readers exit and Close is retried")
	fmt.Fprintln(out, "==================")
}

// ViolationCount returns the number of protocol violations reported since
// process start. Used by tests.
func ViolationCount() uint64 {
	return violations.Load()
}

// TeardownCount returns the number of blocked teardowns reported since
// process start. Used by tests.
func TeardownCount() uint64 {
	return teardowns.Load()
}
