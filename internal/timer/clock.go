package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultLowTime is the threshold, in seconds, at or below which ticks are
// flagged as low time.
const DefaultLowTime = 11

// GameClock counts a session budget down one second at a time. It emits a
// Tick per second and a single Expired when it reaches zero.
type GameClock struct {
	clock   clockwork.Clock
	sink    Sink
	lowTime int

	mu   sync.Mutex
	stop chan struct{}
}

// NewGameClock creates a game clock. lowTime <= 0 uses DefaultLowTime.
func NewGameClock(clock clockwork.Clock, sink Sink, lowTime int) *GameClock {
	if lowTime <= 0 {
		lowTime = DefaultLowTime
	}
	return &GameClock{clock: clock, sink: sink, lowTime: lowTime}
}

// Start begins counting down from seconds. A running countdown is stopped
// first. The ticker is armed before Start returns.
func (c *GameClock) Start(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	stop := make(chan struct{})
	c.stop = stop

	ticker := c.clock.NewTicker(time.Second)
	go c.run(ticker, seconds, stop)
}

// Stop halts the countdown. No event is delivered after Stop returns unless
// it was already being handed to the sink. Safe to call more than once.
func (c *GameClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *GameClock) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *GameClock) run(ticker clockwork.Ticker, remaining int, stop <-chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
		}

		// A tick and a stop can be ready together; stop wins.
		select {
		case <-stop:
			return
		default:
		}

		remaining--
		if remaining <= 0 {
			c.sink(Expired{})
			c.mu.Lock()
			if c.stop == stop {
				c.stop = nil
			}
			c.mu.Unlock()
			return
		}
		c.sink(Tick{Remaining: remaining, LowTime: remaining <= c.lowTime})
	}
}
