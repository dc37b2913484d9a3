package quiesce

import (
	"runtime"
	"time"
)

// Backoff implements the bounded spin-then-sleep retry policy shared by
// Synchronize and the domain's drain loop: yield the processor for a while,
// then sleep with doubling intervals capped at maxSleep. The zero value is
// ready to use.
//
// Polling instead of a wake-on-event wait trades a little latency for a much
// simpler exit path: reader exits stay free of any notification machinery.
type Backoff struct {
	spins int
	sleep time.Duration
}

const (
	// maxSpins is how many times Wait yields before it starts sleeping.
	maxSpins = 64

	// initialSleep is the first sleep interval after the spin budget is
	// exhausted.
	initialSleep = time.Microsecond

	// maxSleep caps the doubling sleep interval. Drains blocked on a slow
	// sleeping reader poll at this rate.
	maxSleep = time.Millisecond
)

// Wait blocks for the next backoff interval.
func (b *Backoff) Wait() {
	if b.spins < maxSpins {
		b.spins++
		runtime.Gosched()
		return
	}
	if b.sleep == 0 {
		b.sleep = initialSleep
	}
	time.Sleep(b.sleep)
	b.sleep *= 2
	if b.sleep > maxSleep {
		b.sleep = maxSleep
	}
}

// Reset returns the Backoff to its initial spinning state. Callers reuse one
// Backoff across unrelated wait episodes by resetting it in between.
func (b *Backoff) Reset() {
	b.spins = 0
	b.sleep = 0
}
