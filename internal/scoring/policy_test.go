package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	tests := []struct {
		name    string
		correct bool
		elapsed time.Duration
		combo   int
		want    Result
	}{
		{"fast first answer", true, 3 * time.Second, 0, Result{Delta: 15, NewCombo: 1, Label: LabelFast}},
		{"slow combo", true, 7 * time.Second, 2, Result{Delta: 30, NewCombo: 3, Label: LabelCombo}},
		{"fast combo stacks", true, 2 * time.Second, 2, Result{Delta: 35, NewCombo: 3, Label: LabelCombo}},
		{"slow plain", true, 6 * time.Second, 0, Result{Delta: 10, NewCombo: 1, Label: LabelCorrect}},
		{"exactly at threshold is slow", true, 5 * time.Second, 0, Result{Delta: 10, NewCombo: 1, Label: LabelCorrect}},
		{"second combo", true, 1 * time.Second, 5, Result{Delta: 35, NewCombo: 6, Label: LabelCombo}},
		{"wrong resets combo", false, 1 * time.Second, 2, Result{Delta: 0, NewCombo: 0, Label: LabelWrong}},
		{"wrong with no combo", false, 9 * time.Second, 0, Result{Delta: 0, NewCombo: 0, Label: LabelWrong}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Score(tt.correct, tt.elapsed, tt.combo)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeout(t *testing.T) {
	p := NewPolicy(DefaultConfig())
	assert.Equal(t, Result{Delta: 0, NewCombo: 0, Label: LabelTimeUp}, p.Timeout())
}

func TestNextComboMilestone(t *testing.T) {
	p := NewPolicy(DefaultConfig())
	tests := []struct {
		combo int
		want  int
	}{
		{0, 3},
		{2, 3},
		{3, 6},
		{5, 6},
		{6, 9},
	}
	for _, tt := range tests {
		if got := p.NextComboMilestone(tt.combo); got != tt.want {
			t.Errorf("NextComboMilestone(%d) = %d, want %d", tt.combo, got, tt.want)
		}
	}
}

func TestScore_ComboDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ComboEvery = 0
	p := NewPolicy(cfg)

	got := p.Score(true, 7*time.Second, 2)
	assert.Equal(t, 10, got.Delta)
	assert.Equal(t, 3, got.NewCombo)
	assert.Equal(t, LabelCorrect, got.Label)
}
