package session

import "time"

// EndReason records why a session ended.
type EndReason string

const (
	EndLivesExhausted EndReason = "lives"
	EndTimeUp         EndReason = "time"
	EndQuit           EndReason = "quit"
)

// Summary is emitted exactly once when a session ends.
type Summary struct {
	SessionID    string
	FinalScore   int
	CorrectCount int
	Answered     int
	Reason       EndReason
	Duration     time.Duration
}

// Accuracy returns the fraction of closed rounds answered correctly.
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.Answered)
}

func buildSummary(state State, reason EndReason, elapsed time.Duration) Summary {
	return Summary{
		SessionID:    state.SessionID,
		FinalScore:   state.Score,
		CorrectCount: state.CorrectCount,
		Answered:     state.Answered,
		Reason:       reason,
		Duration:     elapsed,
	}
}
