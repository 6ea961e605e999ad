package problemgen

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source used by the Generator. *rand.Rand satisfies it;
// tests inject scripted sources to force specific branches.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// Generator produces subtraction problems of increasing difficulty.
// It holds no per-session state: callers pass the previous pair in.
type Generator struct {
	cfg Config
	rng Rand
}

// New creates a Generator. A nil rng uses a time-seeded PCG source.
func New(cfg Config, rng Rand) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if cfg.MaxDistractorDraws <= 0 {
		cfg.MaxDistractorDraws = DefaultConfig().MaxDistractorDraws
	}
	return &Generator{cfg: cfg, rng: rng}
}

// Band returns the difficulty band used for the given question index.
func (g *Generator) Band(index int) Band {
	return g.cfg.bandFor(index)
}

// Generate returns the problem for a 1-based question index. When previous
// is non-nil, a draw matching it is retried until MaxAttempts draws have
// been made; the last draw is then kept even if it repeats.
func (g *Generator) Generate(index int, previous *Pair) Problem {
	band := g.cfg.bandFor(index)

	var pair Pair
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		pair = g.draw(band)
		if previous == nil || pair != *previous {
			break
		}
	}

	answer := pair.Minuend - pair.Subtrahend
	return Problem{
		Minuend:    pair.Minuend,
		Subtrahend: pair.Subtrahend,
		Answer:     answer,
		Options:    g.options(answer),
	}
}

// draw picks operands for one band.
func (g *Generator) draw(b Band) Pair {
	m := b.MinMinuend + g.rng.IntN(b.MaxMinuend-b.MinMinuend+1)

	if !b.Borrow {
		return Pair{Minuend: m, Subtrahend: 1 + g.rng.IntN(m-1)}
	}

	// Subtrahend must exceed the ones digit so the problem regroups.
	lo := m%10 + 1
	if lo > 9 {
		return Pair{Minuend: m, Subtrahend: 9}
	}
	return Pair{Minuend: m, Subtrahend: lo + g.rng.IntN(10-lo)}
}

// options builds the shuffled candidate list around answer.
func (g *Generator) options(answer int) [OptionCount]int {
	opts := make([]int, 0, OptionCount)
	opts = append(opts, answer)
	seen := map[int]bool{answer: true}

	for i := 0; len(opts) < OptionCount && i < g.cfg.MaxDistractorDraws; i++ {
		offset := 1 + g.rng.IntN(g.cfg.MaxOffset)
		if g.rng.IntN(2) == 0 {
			offset = -offset
		}
		c := answer + offset
		if c < 0 || seen[c] {
			continue
		}
		seen[c] = true
		opts = append(opts, c)
	}

	// Random search starved; fill upward so the problem is still playable.
	for c := answer + 1; len(opts) < OptionCount; c++ {
		if !seen[c] {
			seen[c] = true
			opts = append(opts, c)
		}
	}

	g.shuffle(opts)

	var out [OptionCount]int
	copy(out[:], opts)
	return out
}

// shuffle is a Fisher-Yates pass driven by the injected source.
func (g *Generator) shuffle(xs []int) {
	for i := len(xs) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
