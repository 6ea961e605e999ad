package scoring

import "time"

// Label is the feedback shown for a scored round.
type Label string

const (
	LabelWrong   Label = "wrong"
	LabelTimeUp  Label = "time-up"
	LabelCorrect Label = "correct"
	LabelFast    Label = "fast"
	LabelCombo   Label = "combo"
)

// Config holds the scoring constants.
type Config struct {
	BasePoints     int           // default: 10
	SpeedBonus     int           // default: 5
	SpeedThreshold time.Duration // default: 5s, answers strictly faster earn SpeedBonus
	ComboEvery     int           // default: 3
	ComboBonus     int           // default: 20
}

// DefaultConfig returns the standard game constants.
func DefaultConfig() Config {
	return Config{
		BasePoints:     10,
		SpeedBonus:     5,
		SpeedThreshold: 5 * time.Second,
		ComboEvery:     3,
		ComboBonus:     20,
	}
}

// Result is the outcome of scoring one round.
type Result struct {
	Delta    int
	NewCombo int
	Label    Label
}

// Policy maps a round to points and a label. It is stateless; the combo
// streak is passed in and returned.
type Policy struct {
	config Config
}

// NewPolicy creates a scoring policy with the provided config.
func NewPolicy(config Config) Policy {
	return Policy{config: config}
}

// Config returns the constants in use.
func (p Policy) Config() Config {
	return p.config
}

// Score computes points for an answered round.
// Formula: base + speed bonus (elapsed < threshold) + combo bonus (every
// ComboEvery consecutive correct answers). Bonuses stack, and a combo round
// is labelled "combo" even when the speed bonus also applied.
func (p Policy) Score(correct bool, elapsed time.Duration, combo int) Result {
	if !correct {
		return Result{Delta: 0, NewCombo: 0, Label: LabelWrong}
	}

	res := Result{Delta: p.config.BasePoints, Label: LabelCorrect}
	if elapsed < p.config.SpeedThreshold {
		res.Delta += p.config.SpeedBonus
		res.Label = LabelFast
	}

	res.NewCombo = combo + 1
	if p.config.ComboEvery > 0 && res.NewCombo%p.config.ComboEvery == 0 {
		res.Delta += p.config.ComboBonus
		res.Label = LabelCombo
	}
	return res
}

// Timeout scores a round whose deadline passed without an answer.
func (p Policy) Timeout() Result {
	return Result{Delta: 0, NewCombo: 0, Label: LabelTimeUp}
}

// NextComboMilestone returns the next combo length that earns the bonus.
func (p Policy) NextComboMilestone(combo int) int {
	every := p.config.ComboEvery
	if every <= 0 {
		return 0
	}
	return (combo/every + 1) * every
}
