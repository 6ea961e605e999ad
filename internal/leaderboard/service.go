package leaderboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
)

// SubmitResult reports what happened to a submitted score.
type SubmitResult struct {
	Record Record `json:"record"`
	// Saved is false when the player already had an equal or higher score.
	Saved bool `json:"saved"`
	// Best is the player's stored best after the submission.
	Best int `json:"best"`
	// Rank is the player's school-wide position after the submission.
	Rank int `json:"rank"`
}

// Service applies the leaderboard rules on top of a Store.
type Service struct {
	store  Store
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewService creates a Service. A nil logger uses slog.Default.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, clock: clockwork.NewRealClock()}
}

// WithClock returns a copy of the service stamping records with clock.
func (s *Service) WithClock(clock clockwork.Clock) *Service {
	cp := *s
	cp.clock = clock
	return &cp
}

// Submit records a finished game.
func (s *Service) Submit(ctx context.Context, name, className string, score int) (SubmitResult, error) {
	rec := Record{
		Name:      name,
		ClassName: className,
		Score:     score,
		Timestamp: s.clock.Now(),
	}.Normalize()
	if err := rec.Validate(); err != nil {
		return SubmitResult{}, err
	}

	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		s.logger.Error("save score failed", "id", rec.ID, "score", rec.Score, "error", err)
		return SubmitResult{Record: rec}, fmt.Errorf("save score: %w", err)
	}
	s.logger.Info("score submitted", "id", rec.ID, "score", rec.Score, "saved", saved)

	res := SubmitResult{Record: rec, Saved: saved, Best: rec.Score}
	records, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn("list scores failed", "error", err)
		return res, nil
	}
	ranked := Ranked(records)
	res.Rank = Position(ranked, rec.ID)
	if res.Rank > 0 {
		res.Best = ranked[res.Rank-1].Score
	}
	return res, nil
}

// Standings returns the ranked records of one class, or of everyone for
// AllClasses.
func (s *Service) Standings(ctx context.Context, className string) ([]Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return Ranked(FilterClass(records, NormalizeName(className))), nil
}

// Champion returns the school-wide best record.
func (s *Service) Champion(ctx context.Context) (Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("list scores: %w", err)
	}
	best, ok := Champion(records)
	if !ok {
		return Record{}, ErrNoScores
	}
	return best, nil
}

// Classes lists the classes that have at least one score.
func (s *Service) Classes(ctx context.Context) ([]string, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return Classes(records), nil
}

// Report builds the achievement report.
func (s *Service) Report(ctx context.Context) (Report, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list scores: %w", err)
	}
	return BuildReport(records, s.clock.Now()), nil
}

// Reset deletes every score.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	s.logger.Warn("all scores cleared")
	return nil
}
