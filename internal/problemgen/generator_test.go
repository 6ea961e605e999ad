package problemgen

import (
	"math/rand/v2"
	"testing"
)

// scriptedRand returns queued values (reduced mod n) and zero once the
// script runs out.
type scriptedRand struct {
	vals  []int
	calls int
}

func (s *scriptedRand) IntN(n int) int {
	s.calls++
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v % n
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
}

func TestGenerate_EasyBand(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		g := New(DefaultConfig(), seeded(seed))
		for idx := 1; idx <= 5; idx++ {
			p := g.Generate(idx, nil)
			if p.Minuend < 5 || p.Minuend > 9 {
				t.Fatalf("seed %d idx %d: minuend %d outside [5,9]", seed, idx, p.Minuend)
			}
			if p.Subtrahend < 1 || p.Subtrahend >= p.Minuend {
				t.Fatalf("seed %d idx %d: subtrahend %d not in [1,%d)", seed, idx, p.Subtrahend, p.Minuend)
			}
			if p.Answer < 0 {
				t.Fatalf("seed %d idx %d: negative answer %d", seed, idx, p.Answer)
			}
		}
	}
}

func TestGenerate_BorrowingBands(t *testing.T) {
	tests := []struct {
		from, to int
		min, max int
	}{
		{6, 10, 10, 14},
		{11, 30, 15, 18},
	}

	for _, tt := range tests {
		for seed := uint64(1); seed <= 200; seed++ {
			g := New(DefaultConfig(), seeded(seed))
			for idx := tt.from; idx <= tt.to; idx++ {
				p := g.Generate(idx, nil)
				if p.Minuend < tt.min || p.Minuend > tt.max {
					t.Fatalf("idx %d: minuend %d outside [%d,%d]", idx, p.Minuend, tt.min, tt.max)
				}
				if ones := p.Minuend % 10; ones >= p.Subtrahend {
					t.Fatalf("idx %d: %d - %d does not regroup", idx, p.Minuend, p.Subtrahend)
				}
				if p.Subtrahend > 9 {
					t.Fatalf("idx %d: subtrahend %d is not a single digit", idx, p.Subtrahend)
				}
			}
		}
	}
}

func TestGenerate_OptionsInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 300; seed++ {
		g := New(DefaultConfig(), seeded(seed))
		var prev *Pair
		for idx := 1; idx <= 25; idx++ {
			p := g.Generate(idx, prev)
			if err := Validate(p); err != nil {
				t.Fatalf("seed %d idx %d: %v (problem %+v)", seed, idx, err, p)
			}
			if p.CorrectIndex() < 0 {
				t.Fatalf("seed %d idx %d: answer not among options", seed, idx)
			}
			pair := p.Pair()
			prev = &pair
		}
	}
}

func TestGenerate_AvoidsImmediateRepeat(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		g := New(DefaultConfig(), seeded(seed))
		var prev *Pair
		repeats := 0
		for idx := 1; idx <= 10; idx++ {
			p := g.Generate(idx, prev)
			if prev != nil && p.Pair() == *prev {
				repeats++
			}
			pair := p.Pair()
			prev = &pair
		}
		if repeats > 0 {
			t.Errorf("seed %d: %d immediate repeats", seed, repeats)
		}
	}
}

func TestGenerate_RetriesUntilDifferent(t *testing.T) {
	// Easy band: minuend = 5 + IntN(5), subtrahend = 1 + IntN(m-1).
	// {2,3} draws 7 - 4; {0,0} draws 5 - 1.
	rng := &scriptedRand{vals: []int{2, 3, 2, 3, 0, 0}}
	g := New(DefaultConfig(), rng)

	prev := Pair{Minuend: 7, Subtrahend: 4}
	p := g.Generate(1, &prev)

	want := Pair{Minuend: 5, Subtrahend: 1}
	if p.Pair() != want {
		t.Errorf("pair = %+v, want %+v", p.Pair(), want)
	}
}

func TestGenerate_AcceptsDuplicateAfterMaxAttempts(t *testing.T) {
	// Five colliding draws, then a sixth that would differ if it were made.
	rng := &scriptedRand{vals: []int{2, 3, 2, 3, 2, 3, 2, 3, 2, 3, 0, 0}}
	g := New(DefaultConfig(), rng)

	prev := Pair{Minuend: 7, Subtrahend: 4}
	p := g.Generate(1, &prev)

	if p.Pair() != prev {
		t.Errorf("pair = %+v, want the duplicate %+v after 5 attempts", p.Pair(), prev)
	}
	if p.Answer != 3 {
		t.Errorf("answer = %d, want 3", p.Answer)
	}
	if err := Validate(p); err != nil {
		t.Errorf("duplicate problem invalid: %v", err)
	}
}

func TestGenerate_DistractorStarvationFallsBack(t *testing.T) {
	// After the draw every IntN returns 0: each offset is -1, so only
	// answer-1 is ever found and the rest must come from the fallback.
	rng := &scriptedRand{vals: []int{4, 5}} // 9 - 6
	g := New(DefaultConfig(), rng)

	p := g.Generate(1, nil)
	if p.Answer != 3 {
		t.Fatalf("answer = %d, want 3", p.Answer)
	}
	if err := Validate(p); err != nil {
		t.Fatalf("invalid problem: %v", err)
	}

	got := map[int]bool{}
	for _, o := range p.Options {
		got[o] = true
	}
	for _, want := range []int{2, 3, 4, 5} {
		if !got[want] {
			t.Errorf("options %v missing %d", p.Options, want)
		}
	}
	if rng.calls > 2+2*DefaultConfig().MaxDistractorDraws+OptionCount {
		t.Errorf("distractor search made %d draws, expected it to be capped", rng.calls)
	}
}

func TestGenerate_ZeroNeverGoesNegative(t *testing.T) {
	// Answer 1 (5 - 4): downward offsets of 2 or 3 must be rejected.
	for seed := uint64(1); seed <= 100; seed++ {
		g := New(DefaultConfig(), seeded(seed))
		opts := g.options(1)
		for _, o := range opts {
			if o < 0 {
				t.Fatalf("seed %d: negative option in %v", seed, opts)
			}
		}
	}
}

func TestGenerate_ShuffleMovesAnswer(t *testing.T) {
	positions := map[int]int{}
	for seed := uint64(1); seed <= 200; seed++ {
		g := New(DefaultConfig(), seeded(seed))
		positions[g.Generate(1, nil).CorrectIndex()]++
	}
	for i := 0; i < OptionCount; i++ {
		if positions[i] == 0 {
			t.Errorf("answer never landed at position %d: %v", i, positions)
		}
	}
}

func TestBandFor(t *testing.T) {
	g := New(DefaultConfig(), seeded(1))
	tests := []struct {
		index int
		want  Difficulty
	}{
		{1, DifficultyEasy},
		{5, DifficultyEasy},
		{6, DifficultyMedium},
		{10, DifficultyMedium},
		{11, DifficultyHard},
		{99, DifficultyHard},
	}
	for _, tt := range tests {
		if got := g.Band(tt.index).Difficulty; got != tt.want {
			t.Errorf("Band(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := DefaultConfig()
	bad.Bands = append(bad.Bands, Band{FromIndex: 3, MinMinuend: 10, MaxMinuend: 12, Borrow: true})
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-increasing bands")
	}

	bad = DefaultConfig()
	bad.Bands[1].MinMinuend = 5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for single-digit borrowing band")
	}

	bad = DefaultConfig()
	bad.MaxAttempts = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero attempts")
	}
}
