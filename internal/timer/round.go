package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// RoundTimer tracks the deadline of the current question. Only one round is
// pending at a time; starting a new one supersedes the previous.
type RoundTimer struct {
	clock clockwork.Clock
	sink  Sink

	mu      sync.Mutex
	last    Handle
	current Handle
	timer   clockwork.Timer
}

// NewRoundTimer creates a round timer that reports timeouts to sink.
func NewRoundTimer(clock clockwork.Clock, sink Sink) *RoundTimer {
	return &RoundTimer{clock: clock, sink: sink}
}

// Start arms a deadline of limit and returns its handle. Any pending round
// is cancelled first, so at most one Timeout is ever in flight per Start.
func (t *RoundTimer) Start(limit time.Duration) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.last++
	h := t.last
	t.current = h
	t.timer = t.clock.AfterFunc(limit, func() { t.fire(h) })
	return h
}

// Cancel disarms the round identified by h. Cancelling a round that already
// fired or was superseded is a no-op.
func (t *RoundTimer) Cancel(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h == 0 || h != t.current {
		return
	}
	t.stopLocked()
}

// Stop disarms whatever round is pending.
func (t *RoundTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Pending reports whether h is the armed round.
func (t *RoundTimer) Pending(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return h != 0 && h == t.current
}

func (t *RoundTimer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.current = 0
}

func (t *RoundTimer) fire(h Handle) {
	t.mu.Lock()
	if h != t.current {
		// Cancelled or superseded after the deadline raced Stop.
		t.mu.Unlock()
		return
	}
	t.current = 0
	t.timer = nil
	t.mu.Unlock()

	t.sink(Timeout{Handle: h})
}
