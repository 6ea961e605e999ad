package leaderboard

import "errors"

var (
	// ErrInvalidRecord is returned when a record is missing its name or
	// class, or carries a negative score.
	ErrInvalidRecord = errors.New("invalid score record")
	// ErrNoScores is returned when a query needs at least one record.
	ErrNoScores = errors.New("no scores recorded")
)
