package problemgen

import (
	"errors"
	"fmt"
)

// Config controls how the Generator draws problems.
type Config struct {
	// Bands are ordered by FromIndex. The last band whose FromIndex is at
	// or below the question index wins.
	Bands []Band

	// MaxAttempts is the total number of draws allowed when the new pair
	// repeats the previous one. The final draw is accepted regardless.
	MaxAttempts int

	// MaxOffset is the largest distance between a distractor and the answer.
	MaxOffset int

	// MaxDistractorDraws caps the random search for distractors before the
	// generator falls back to filling the remaining slots deterministically.
	MaxDistractorDraws int
}

// DefaultConfig returns the standard difficulty curve: five easy questions,
// five medium regrouping questions, then hard regrouping questions.
func DefaultConfig() Config {
	return Config{
		Bands: []Band{
			{FromIndex: 1, Difficulty: DifficultyEasy, MinMinuend: 5, MaxMinuend: 9},
			{FromIndex: 6, Difficulty: DifficultyMedium, MinMinuend: 10, MaxMinuend: 14, Borrow: true},
			{FromIndex: 11, Difficulty: DifficultyHard, MinMinuend: 15, MaxMinuend: 18, Borrow: true},
		},
		MaxAttempts:        5,
		MaxOffset:          3,
		MaxDistractorDraws: 64,
	}
}

// Validate checks that the config can always produce a problem.
func (c Config) Validate() error {
	if len(c.Bands) == 0 {
		return errors.New("at least one band is required")
	}
	if c.Bands[0].FromIndex != 1 {
		return fmt.Errorf("first band must start at index 1, got %d", c.Bands[0].FromIndex)
	}
	for i, b := range c.Bands {
		if i > 0 && b.FromIndex <= c.Bands[i-1].FromIndex {
			return fmt.Errorf("band %d: FromIndex %d not increasing", i, b.FromIndex)
		}
		if b.MinMinuend > b.MaxMinuend {
			return fmt.Errorf("band %d: minuend range [%d,%d] is empty", i, b.MinMinuend, b.MaxMinuend)
		}
		if !b.Borrow && b.MinMinuend < 2 {
			return fmt.Errorf("band %d: minuend must be at least 2 without borrowing", i)
		}
		if b.Borrow && b.MinMinuend < 10 {
			return fmt.Errorf("band %d: borrowing needs a two-digit minuend", i)
		}
	}
	if c.MaxAttempts < 1 {
		return errors.New("MaxAttempts must be positive")
	}
	if c.MaxOffset < 1 {
		return errors.New("MaxOffset must be positive")
	}
	return nil
}

// bandFor returns the band that applies to a 1-based question index.
func (c Config) bandFor(index int) Band {
	band := c.Bands[0]
	for _, b := range c.Bands {
		if index >= b.FromIndex {
			band = b
		}
	}
	return band
}
