package problemgen

import "fmt"

// ValidationError describes why a problem breaks its invariants.
type ValidationError struct {
	Rule    string // Short identifier, e.g. "answer", "options-distinct"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("problem %q: %s", e.Rule, e.Message)
}

// Validate checks the arithmetic and option invariants of a problem.
// It returns nil when the problem is well formed.
func Validate(p Problem) *ValidationError {
	if p.Answer != p.Minuend-p.Subtrahend {
		return &ValidationError{
			Rule:    "answer",
			Message: fmt.Sprintf("%d - %d != %d", p.Minuend, p.Subtrahend, p.Answer),
		}
	}
	if p.Answer < 0 {
		return &ValidationError{Rule: "answer", Message: "answer is negative"}
	}

	seen := make(map[int]bool, OptionCount)
	for _, o := range p.Options {
		if o < 0 {
			return &ValidationError{Rule: "options-non-negative", Message: fmt.Sprintf("option %d is negative", o)}
		}
		if seen[o] {
			return &ValidationError{Rule: "options-distinct", Message: fmt.Sprintf("option %d appears twice", o)}
		}
		seen[o] = true
	}
	if !seen[p.Answer] {
		return &ValidationError{Rule: "options-answer", Message: fmt.Sprintf("answer %d missing from options", p.Answer)}
	}
	return nil
}
