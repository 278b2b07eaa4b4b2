package grade

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrade is returned for literals outside the admissions scale.
var ErrInvalidGrade = errors.New("invalid grade")

// Grade is one letter of the closed admissions scale. The zero value is not a valid grade.
type Grade int

const (
	AStar Grade = iota + 1
	A
	B
	C
	D
	E
	F
	G
	U
)

var (
	letters = [...]string{AStar: "A*", A: "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", U: "U"}
	credits = [...]int{AStar: 12, A: 11, B: 10, C: 9, D: 8, E: 7, F: 6, G: 5, U: 0}
)

// Scale returns every grade from best to worst.
func Scale() []Grade {
	return []Grade{AStar, A, B, C, D, E, F, G, U}
}

// Parse resolves a grade literal. Matching ignores case and surrounding whitespace.
func Parse(s string) (Grade, error) {
	literal := strings.ToUpper(strings.TrimSpace(s))
	for _, g := range Scale() {
		if letters[g] == literal {
			return g, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}

// MustParse is Parse for literals known at compile time.
func MustParse(s string) Grade {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Grade) Valid() bool {
	return g >= AStar && g <= U
}

// Credit is the credit equivalence used for aggregate totals.
func (g Grade) Credit() int {
	if !g.Valid() {
		return 0
	}
	return credits[g]
}

// Rank orders grades for comparison only; 1 is the best grade.
func (g Grade) Rank() int {
	if !g.Valid() {
		return 0
	}
	return int(g)
}

func (g Grade) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Grade(%d)", int(g))
	}
	return letters[g]
}

func (g Grade) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(letters[g]), nil
}

func (g *Grade) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// MeetsOrExceeds reports whether actual is at least as good as required.
// Both grades must be valid; an invalid grade never meets anything.
func MeetsOrExceeds(actual, required Grade) bool {
	if !actual.Valid() || !required.Valid() {
		return false
	}
	return actual.Rank() <= required.Rank()
}

// Compare is MeetsOrExceeds over raw literals.
func Compare(actual, required string) (bool, error) {
	a, err := Parse(actual)
	if err != nil {
		return false, err
	}

	r, err := Parse(required)
	if err != nil {
		return false, err
	}

	return MeetsOrExceeds(a, r), nil
}
