// Package notify implements the audible feedback played for round
// outcomes and the low-time countdown.
package notify

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
)

// Sound names a feedback cue.
type Sound string

const (
	SoundCorrect Sound = "correct"
	SoundWrong   Sound = "wrong"
	SoundTick    Sound = "tick"
)

// Func adapts a function to session.Notifier.
type Func func(Sound)

func (f Func) NotifyCorrect() { f(SoundCorrect) }
func (f Func) NotifyWrong()   { f(SoundWrong) }
func (f Func) NotifyTick()    { f(SoundTick) }

// Bell rings the terminal bell. A wrong answer rings twice.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) NotifyCorrect() { b.ring(1) }
func (b *Bell) NotifyWrong()   { b.ring(2) }
func (b *Bell) NotifyTick()    { b.ring(1) }

func (b *Bell) ring(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// Feedback is fire-and-forget; a closed terminal just goes quiet.
	_, _ = io.WriteString(b.w, strings.Repeat("\a", n))
}

// Log records cues at debug level.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier. A nil logger uses slog.Default.
func NewLog(logger *slog.Logger) Log {
	if logger == nil {
		logger = slog.Default()
	}
	return Log{logger: logger}
}

func (l Log) NotifyCorrect() { l.logger.Debug("sound", "cue", string(SoundCorrect)) }
func (l Log) NotifyWrong()   { l.logger.Debug("sound", "cue", string(SoundWrong)) }
func (l Log) NotifyTick()    { l.logger.Debug("sound", "cue", string(SoundTick)) }

// Multi fans every cue out to several notifiers.
type Multi []session.Notifier

func (m Multi) NotifyCorrect() {
	for _, n := range m {
		n.NotifyCorrect()
	}
}

func (m Multi) NotifyWrong() {
	for _, n := range m {
		n.NotifyWrong()
	}
}

func (m Multi) NotifyTick() {
	for _, n := range m {
		n.NotifyTick()
	}
}

// Nop plays nothing.
type Nop struct{}

func (Nop) NotifyCorrect() {}
func (Nop) NotifyWrong()   {}
func (Nop) NotifyTick()    {}

var (
	_ session.Notifier = Func(nil)
	_ session.Notifier = (*Bell)(nil)
	_ session.Notifier = Log{}
	_ session.Notifier = Multi(nil)
	_ session.Notifier = Nop{}
)
