// Package roster provides the class and student name lists players pick
// from on the start screen.
package roster

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// ErrClassNotFound is returned when a class has no roster entry.
var ErrClassNotFound = errors.New("class not found")

// Classes maps a class name to its sorted student names. Names and class
// names are upper-cased.
type Classes map[string][]string

// Directory loads the roster.
type Directory interface {
	LoadClasses(ctx context.Context) (Classes, error)
}

// Normalize trims and upper-cases every name, drops blanks and duplicates
// and sorts each class.
func Normalize(raw map[string][]string) Classes {
	out := make(Classes, len(raw))
	for class, names := range raw {
		class = strings.ToUpper(strings.TrimSpace(class))
		if class == "" {
			continue
		}
		list := out[class]
		for _, n := range names {
			n = strings.ToUpper(strings.TrimSpace(n))
			if n != "" {
				list = append(list, n)
			}
		}
		slices.Sort(list)
		out[class] = slices.Compact(list)
	}
	return out
}

// Names returns the sorted class names.
func (c Classes) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Students returns the students of one class.
func (c Classes) Students(class string) ([]string, error) {
	names, ok := c[strings.ToUpper(strings.TrimSpace(class))]
	if !ok {
		return nil, ErrClassNotFound
	}
	return names, nil
}

// Empty reports whether there is no class to choose from.
func (c Classes) Empty() bool {
	return len(c) == 0
}

// Static serves a fixed roster.
type Static Classes

func (s Static) LoadClasses(context.Context) (Classes, error) {
	return Classes(s), nil
}
