// Package srcu implements a sleepable grace-period synchronization domain
// for Go: readers traverse shared data without locks and may block inside
// their critical sections, while updaters wait until it is safe to reclaim
// data those readers may still be observing.
//
// # Quick Start
//
//	dom, err := srcu.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dom.Close()
//
//	// Reader: lock-free, may sleep inside the section.
//	idx := dom.Enter()
//	cfg := current.Load()
//	use(cfg) // may block
//	dom.Exit(idx)
//
//	// Updater: unpublish, wait, reclaim.
//	old := current.Swap(next)
//	dom.Wait()
//	release(old)
//
// # How It Works
//
// Each execution unit owns a pair of counters addressed by the low bit of a
// monotonically increasing epoch. Enter reads the epoch's parity and
// increments the matching slot of its unit; Exit decrements the same slot.
// Both run inside a short pinned window, so the fast path is O(1), lock-free
// and free of cross-core cache contention.
//
// Wait advances the grace period in four phases under the domain lock:
//
//  1. Snapshot the epoch; if a concurrent updater has since advanced it by
//     two or more, a full cycle already covered this request and Wait
//     returns immediately (request coalescing).
//  2. Run one quiescence fence, then flip the epoch so new readers charge
//     the other slot.
//  3. Run a second fence, after which no new reader can land in the retired
//     slot, then poll that slot's cross-unit sum with bounded backoff until
//     it drains to zero.
//  4. Run a third fence before releasing the lock, so a reader exit
//     reordered ahead of its last use of protected data cannot bleed a
//     reference past the wait.
//
// There is deliberately no asynchronous (fire-and-forget) reclamation API:
// synchronous waiting caps outstanding deferred memory at one item per
// updater goroutine, where unbounded callback queues could let a single
// slow domain exhaust memory.
//
// # Blocking Behavior
//
// Enter and Exit never block. Wait blocks for as long as the slowest reader
// section active at the moment it was called; a reader that never exits
// stalls every Wait on its domain forever. Bound that risk by scoping
// domains narrowly, one per subsystem.
//
// # Teardown
//
// Close refuses to release a domain with reader sections still in flight:
// it records a diagnostic and returns [ErrActiveReaders], leaving the
// counters allocated. A bounded leak is preferred over freeing memory a
// blocked reader may still load. Diagnostics go to os.Stderr or to the file
// named by the SRCU_LOG environment variable.
//
// # Examples
//
// See the package examples:
//   - [Example] - publish, wait, reclaim
//   - [Example_nestedSections] - nested reader sections across an epoch flip
package srcu
