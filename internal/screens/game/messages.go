package game

import (
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
)

// updateMsg carries one engine update into the Bubble Tea loop.
type updateMsg struct {
	Update session.Update
}

// engineDoneMsg is sent once the engine's update stream is closed.
type engineDoneMsg struct{}

// feedbackClearMsg hides the round feedback unless a newer round replaced it.
type feedbackClearMsg struct {
	Seq int
}

// savedMsg reports the leaderboard submission of a finished game.
type savedMsg struct {
	Result leaderboard.SubmitResult
	Err    error
}
