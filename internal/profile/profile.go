package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/admissions-eligibility/internal/grade"
)

// ErrInvalidProfile is returned when a student record cannot form a profile.
var ErrInvalidProfile = errors.New("invalid academic profile")

// Entry is a declared subject as it arrives from the student record.
type Entry struct {
	Name  string `json:"name" mapstructure:"name"`
	Grade string `json:"grade" mapstructure:"grade"`
}

// Subject is a declared subject together with its parsed grade.
// Recognized is false when RawGrade is not part of the admissions scale.
type Subject struct {
	Name       string
	RawGrade   string
	Grade      grade.Grade
	Recognized bool
}

// Profile is a student's subject record for a single evaluation.
type Profile struct {
	StudentID string

	subjects []Subject
	index    map[string]int
}

// New builds a profile keeping the declared subject order.
func New(studentID string, entries []Entry) (*Profile, error) {
	p := &Profile{
		StudentID: strings.TrimSpace(studentID),
		subjects:  make([]Subject, 0, len(entries)),
		index:     make(map[string]int, len(entries)),
	}

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: subject name is empty", ErrInvalidProfile)
		}

		key := normalize(name)
		if _, ok := p.index[key]; ok {
			return nil, fmt.Errorf("%w: duplicate subject %q", ErrInvalidProfile, name)
		}

		subject := Subject{Name: name, RawGrade: entry.Grade}
		if g, err := grade.Parse(entry.Grade); err == nil {
			subject.Grade = g
			subject.Recognized = true
		}

		p.index[key] = len(p.subjects)
		p.subjects = append(p.subjects, subject)
	}

	return p, nil
}

// FromMap builds a profile from a name to grade mapping. Subjects are ordered by name.
func FromMap(studentID string, grades map[string]string) (*Profile, error) {
	names := make([]string, 0, len(grades))
	for name := range grades {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Grade: grades[name]})
	}

	return New(studentID, entries)
}

// Lookup finds a subject by case-insensitive name, whether or not its grade was recognized.
func (p *Profile) Lookup(name string) (Subject, bool) {
	if p == nil {
		return Subject{}, false
	}

	idx, ok := p.index[normalize(name)]
	if !ok {
		return Subject{}, false
	}
	return p.subjects[idx], true
}

// Grade returns the subject's grade only when it was recognized.
func (p *Profile) Grade(name string) (grade.Grade, bool) {
	subject, ok := p.Lookup(name)
	if !ok || !subject.Recognized {
		return 0, false
	}
	return subject.Grade, true
}

// Credits sums the credit value of every recognized grade.
func (p *Profile) Credits() int {
	if p == nil {
		return 0
	}

	total := 0
	for _, subject := range p.subjects {
		if subject.Recognized {
			total += subject.Grade.Credit()
		}
	}
	return total
}

// Unrecognized lists subjects whose grade failed to parse, in declared order.
func (p *Profile) Unrecognized() []string {
	if p == nil {
		return nil
	}

	var names []string
	for _, subject := range p.subjects {
		if !subject.Recognized {
			names = append(names, subject.Name)
		}
	}
	return names
}

// Subjects returns a copy of the declared subjects.
func (p *Profile) Subjects() []Subject {
	if p == nil {
		return nil
	}
	return append([]Subject(nil), p.subjects...)
}

func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.subjects)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
