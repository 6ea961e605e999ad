// Package timer provides the two schedulers a game session runs on: a
// cancellable one-shot round deadline and a cancellable per-second game
// clock. Both deliver discrete events to a Sink instead of mutating state.
package timer

// Handle identifies one started round. Zero is never a valid handle.
type Handle uint64

// Event is delivered to a Sink.
type Event interface {
	timerEvent()
}

// Timeout is sent when a round's deadline passes without being cancelled.
type Timeout struct {
	Handle Handle
}

// Tick is sent once per second while the game clock runs.
type Tick struct {
	Remaining int
	// LowTime is set while 0 < Remaining <= the clock's low-time threshold.
	LowTime bool
}

// Expired is sent once when the game clock reaches zero.
type Expired struct{}

func (Timeout) timerEvent() {}
func (Tick) timerEvent()    {}
func (Expired) timerEvent() {}

// Sink receives timer events. It is called from timer goroutines and must
// hand the event off quickly (typically by queueing it).
type Sink func(Event)
