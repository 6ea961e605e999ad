package problemgen

import "fmt"

// OptionCount is the number of candidate answers offered per problem.
const OptionCount = 4

// Pair identifies a problem by its operands. It is the signature used to
// avoid serving the same problem twice in a row.
type Pair struct {
	Minuend    int
	Subtrahend int
}

// Problem is a single subtraction question ready for display.
type Problem struct {
	Minuend    int
	Subtrahend int

	// Answer is always Minuend - Subtrahend.
	Answer int

	// Options holds four distinct non-negative candidates in display order.
	// Exactly one of them equals Answer.
	Options [OptionCount]int
}

// Pair returns the operand signature of the problem.
func (p Problem) Pair() Pair {
	return Pair{Minuend: p.Minuend, Subtrahend: p.Subtrahend}
}

// Text returns the question prompt, e.g. "12 - 7 = ?".
func (p Problem) Text() string {
	return fmt.Sprintf("%d - %d = ?", p.Minuend, p.Subtrahend)
}

// CorrectIndex returns the position of Answer within Options, or -1.
func (p Problem) CorrectIndex() int {
	for i, o := range p.Options {
		if o == p.Answer {
			return i
		}
	}
	return -1
}

// Difficulty names a question band.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Band describes how operands are drawn for a range of question indexes.
type Band struct {
	// FromIndex is the first 1-based question index this band applies to.
	FromIndex int

	Difficulty Difficulty

	// MinMinuend and MaxMinuend bound the minuend, inclusive.
	MinMinuend int
	MaxMinuend int

	// Borrow forces the subtrahend above the minuend's ones digit so the
	// problem needs regrouping.
	Borrow bool
}
