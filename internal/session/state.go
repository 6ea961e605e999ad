package session

import (
	"time"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/problemgen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/timer"
)

// Phase represents the current phase of a game session.
type Phase int

const (
	PhaseAwaitingAnswer Phase = iota // A question is live and its round timer is armed
	PhaseTransitioning               // The round is closed and the next question is being prepared
	PhaseEnded                       // Lives or clock ran out, or the player quit
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingAnswer:
		return "awaiting-answer"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// State tracks the runtime state of one game session. The engine owns it;
// observers only ever see copies.
type State struct {
	// SessionID is the UUID for this session.
	SessionID string

	// Score is the running total. It never decreases.
	Score int

	// Lives starts at Config.StartingLives. The session ends once it drops
	// below zero, so the lowest value ever observed is -1.
	Lives int

	// Combo is the number of consecutive correct answers.
	Combo int

	// QuestionIndex is the 1-based index of the current question.
	QuestionIndex int

	// CorrectCount is the number of rounds answered correctly.
	CorrectCount int

	// Answered is the number of rounds closed by an answer or a timeout.
	Answered int

	// SecondsRemaining is what is left on the game clock.
	SecondsRemaining int

	// Current is the live question (nil between questions and after the end).
	Current *problemgen.Problem

	// Last is the operand pair of the previous question, used to avoid
	// serving the same problem twice in a row.
	Last *problemgen.Pair

	// Phase is the current session phase.
	Phase Phase

	// StartTime is when the session began.
	StartTime time.Time

	// QuestionStartTime is when the current question became live.
	QuestionStartTime time.Time

	// Round is the handle of the armed round timer, zero when none is armed.
	Round timer.Handle
}

func newState(id string, cfg Config, now time.Time) State {
	return State{
		SessionID:        id,
		Lives:            cfg.StartingLives,
		SecondsRemaining: int(cfg.GameDuration / time.Second),
		Phase:            PhaseTransitioning,
		StartTime:        now,
	}
}

// Snapshot returns a deep copy that is safe to hand to another goroutine.
func (s State) Snapshot() State {
	c := s
	if s.Current != nil {
		p := *s.Current
		c.Current = &p
	}
	if s.Last != nil {
		l := *s.Last
		c.Last = &l
	}
	return c
}
