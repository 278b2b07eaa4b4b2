package requirement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/admissions-eligibility/internal/grade"
)

// ErrInvalidRequirementSpec is returned for malformed course requirement configuration.
var ErrInvalidRequirementSpec = errors.New("invalid requirement spec")

// SubjectRequirement demands a minimum grade in a single subject.
type SubjectRequirement struct {
	Subject      string      `json:"subject"`
	MinimumGrade grade.Grade `json:"minimum_grade"`
}

// CategoryRequirement demands at least MinimumCount of Subjects at MinimumGrade or better.
type CategoryRequirement struct {
	Category     string      `json:"category"`
	Subjects     []string    `json:"subjects"`
	MinimumGrade grade.Grade `json:"minimum_grade"`
	MinimumCount int         `json:"minimum_count"`
}

// Spec holds the admission requirements of a course.
// Subject and category requirements are reported in declared order.
type Spec struct {
	CourseID       string                `json:"course_id"`
	CourseName     string                `json:"course_name,omitempty"`
	MinimumCredits int                   `json:"minimum_credits"`
	Subjects       []SubjectRequirement  `json:"subjects,omitempty"`
	Categories     []CategoryRequirement `json:"categories,omitempty"`
}

// New validates and returns a requirement spec.
func New(courseID string, minimumCredits int, subjects []SubjectRequirement, categories []CategoryRequirement) (*Spec, error) {
	s := &Spec{
		CourseID:       strings.TrimSpace(courseID),
		MinimumCredits: minimumCredits,
		Subjects:       append([]SubjectRequirement(nil), subjects...),
		Categories:     make([]CategoryRequirement, 0, len(categories)),
	}

	for _, c := range categories {
		c.Subjects = append([]string(nil), c.Subjects...)
		s.Categories = append(s.Categories, c)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate reports every configuration problem in the spec.
func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: spec is nil", ErrInvalidRequirementSpec)
	}

	var problems []string

	if s.MinimumCredits < 0 {
		problems = append(problems, fmt.Sprintf("minimum credits must be >= 0, got %d", s.MinimumCredits))
	}

	for i, r := range s.Subjects {
		if strings.TrimSpace(r.Subject) == "" {
			problems = append(problems, fmt.Sprintf("subjects[%d]: subject name is empty", i))
		}
		if !r.MinimumGrade.Valid() {
			problems = append(problems, fmt.Sprintf("subjects[%d] %q: minimum grade is not on the scale", i, r.Subject))
		}
	}

	for i, c := range s.Categories {
		problems = append(problems, validateCategory(i, c)...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: course %q: %s", ErrInvalidRequirementSpec, s.CourseID, strings.Join(problems, "; "))
	}

	return nil
}

func validateCategory(i int, c CategoryRequirement) []string {
	var problems []string
	prefix := fmt.Sprintf("categories[%d] %q", i, c.Category)

	if strings.TrimSpace(c.Category) == "" {
		problems = append(problems, fmt.Sprintf("categories[%d]: category name is empty", i))
	}
	if len(c.Subjects) == 0 {
		problems = append(problems, prefix+": no subjects listed")
	}

	seen := make(map[string]struct{}, len(c.Subjects))
	for _, subject := range c.Subjects {
		key := strings.ToLower(strings.TrimSpace(subject))
		if key == "" {
			problems = append(problems, prefix+": empty subject name")
			continue
		}
		if _, ok := seen[key]; ok {
			problems = append(problems, fmt.Sprintf("%s: subject %q listed twice", prefix, subject))
		}
		seen[key] = struct{}{}
	}

	if !c.MinimumGrade.Valid() {
		problems = append(problems, prefix+": minimum grade is not on the scale")
	}
	if c.MinimumCount < 0 || c.MinimumCount > len(c.Subjects) {
		problems = append(problems, fmt.Sprintf("%s: minimum count %d must be between 0 and %d", prefix, c.MinimumCount, len(c.Subjects)))
	}

	return problems
}

// IsEmpty reports whether the spec has no subject or category requirements.
func (s *Spec) IsEmpty() bool {
	return s == nil || (len(s.Subjects) == 0 && len(s.Categories) == 0)
}
