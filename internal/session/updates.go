package session

import (
	"time"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/problemgen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/scoring"
)

// Answer is submitted by the player. Index names the question it answers;
// answers for any other question are dropped. Choice is the option value
// picked, not its position.
type Answer struct {
	Index  int
	Choice int
}

// Quit ends the session at the player's request.
type Quit struct{}

// RoundOutcome describes how one round closed.
type RoundOutcome struct {
	Index    int
	Problem  problemgen.Problem
	Correct  bool
	TimedOut bool
	// Chosen is the submitted value; meaningless when TimedOut.
	Chosen  int
	Elapsed time.Duration
	Points  int
	Label   scoring.Label
}

// Update is delivered to an Observer after each state transition.
type Update interface {
	sessionUpdate()
}

// QuestionUpdate announces a new live question.
type QuestionUpdate struct {
	Index      int
	Problem    problemgen.Problem
	Difficulty problemgen.Difficulty
	Limit      time.Duration
	State      State
}

// OutcomeUpdate reports a closed round. State is taken before the next
// question is generated, so its Phase is Transitioning unless the round
// ended the session.
type OutcomeUpdate struct {
	Outcome RoundOutcome
	State   State
}

// TickUpdate reports one second of the game clock.
type TickUpdate struct {
	Remaining int
	LowTime   bool
}

// EndedUpdate carries the final summary.
type EndedUpdate struct {
	Summary Summary
	State   State
}

func (QuestionUpdate) sessionUpdate() {}
func (OutcomeUpdate) sessionUpdate()  {}
func (TickUpdate) sessionUpdate()     {}
func (EndedUpdate) sessionUpdate()    {}

// Observer receives updates on the engine goroutine. It must not block.
type Observer func(Update)

// Notifier produces the audible feedback for round outcomes and the
// low-time countdown.
type Notifier interface {
	NotifyCorrect()
	NotifyWrong()
	NotifyTick()
}

type nopNotifier struct{}

func (nopNotifier) NotifyCorrect() {}
func (nopNotifier) NotifyWrong()   {}
func (nopNotifier) NotifyTick()    {}
