package leaderboard

import (
	"slices"
	"strings"
)

// AllClasses is the filter value that keeps every record.
const AllClasses = ""

// ChartSize is the number of entries shown in the score chart.
const ChartSize = 5

// Sort orders records best first: higher score, then earlier timestamp,
// then name.
func Sort(records []Record) {
	slices.SortStableFunc(records, compare)
}

func compare(a, b Record) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ClassName, b.ClassName)
}

// Ranked returns a sorted copy of records.
func Ranked(records []Record) []Record {
	out := slices.Clone(records)
	Sort(out)
	return out
}

// FilterClass keeps the records of one class. AllClasses keeps everything.
func FilterClass(records []Record, className string) []Record {
	if className == AllClasses {
		return slices.Clone(records)
	}
	var out []Record
	for _, r := range records {
		if r.ClassName == className {
			out = append(out, r)
		}
	}
	return out
}

// Top returns at most n records from an already ranked slice.
func Top(ranked []Record, n int) []Record {
	if n < len(ranked) {
		return ranked[:n]
	}
	return ranked
}

// Champion returns the best record overall.
func Champion(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if compare(r, best) < 0 {
			best = r
		}
	}
	return best, true
}

// Classes returns the sorted distinct class names present in records.
func Classes(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.ClassName] {
			seen[r.ClassName] = true
			out = append(out, r.ClassName)
		}
	}
	slices.Sort(out)
	return out
}

// Position returns the 1-based rank of id within ranked, or 0.
func Position(ranked []Record, id string) int {
	for i, r := range ranked {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}
