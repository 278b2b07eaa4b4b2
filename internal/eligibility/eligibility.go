package eligibility

import (
	"fmt"

	"github.com/spigell/admissions-eligibility/internal/profile"
	"github.com/spigell/admissions-eligibility/internal/requirement"
)

// Outcome is the verdict of a single requirement.
type Outcome string

const (
	Passed Outcome = "passed"
	Failed Outcome = "failed"
	// Missing means the student has no usable data for the requirement,
	// as opposed to having it and falling short.
	Missing Outcome = "missing"
)

// Kind tells which part of the requirement spec produced an item.
type Kind string

const (
	KindCredits  Kind = "credits"
	KindSubject  Kind = "subject"
	KindCategory Kind = "category"
)

const TotalCreditsLabel = "Total Credits"

// Item is one row of the eligibility breakdown.
type Item struct {
	Kind    Kind    `json:"kind"`
	Label   string  `json:"label"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail"`
}

// Result is the itemized verdict of evaluating a profile against a spec.
type Result struct {
	IsEligible      bool   `json:"is_eligible"`
	TotalCredits    int    `json:"total_credits"`
	RequiredCredits int    `json:"required_credits"`
	Items           []Item `json:"items"`
	// UnrecognizedSubjects lists profile subjects whose grade could not be read.
	// They never contribute credits and are reported as missing where required.
	UnrecognizedSubjects []string `json:"unrecognized_subjects,omitempty"`
}

// Check is a single step of the evaluation pipeline.
type Check interface {
	Name() string
	Apply(p *profile.Profile) Item
}

// Checks builds the ordered pipeline for a spec: total credits first,
// then subject requirements, then category requirements, each in declared order.
func Checks(spec *requirement.Spec) []Check {
	steps := make([]Check, 0, 1+len(spec.Subjects)+len(spec.Categories))
	steps = append(steps, NewTotalCredits(spec.MinimumCredits))

	for _, r := range spec.Subjects {
		steps = append(steps, NewSubjectGrade(r))
	}

	for _, r := range spec.Categories {
		steps = append(steps, NewCategoryCoverage(r))
	}

	return steps
}

// Run applies the checks in order.
func Run(p *profile.Profile, steps []Check) []Item {
	items := make([]Item, 0, len(steps))
	for _, step := range steps {
		items = append(items, step.Apply(p))
	}
	return items
}

// Evaluate decides whether the profile satisfies the spec.
// It only fails when given nil or unvalidated input.
func Evaluate(p *profile.Profile, spec *requirement.Spec) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("evaluate: %w: academic profile is required", profile.ErrInvalidProfile)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	items := Run(p, Checks(spec))

	eligible := true
	for _, item := range items {
		if item.Outcome != Passed {
			eligible = false
			break
		}
	}

	return &Result{
		IsEligible:           eligible,
		TotalCredits:         p.Credits(),
		RequiredCredits:      spec.MinimumCredits,
		Items:                items,
		UnrecognizedSubjects: p.Unrecognized(),
	}, nil
}

// Passed counts the items that passed.
func (r *Result) Passed() int {
	if r == nil {
		return 0
	}

	n := 0
	for _, item := range r.Items {
		if item.Outcome == Passed {
			n++
		}
	}
	return n
}

// Unmet returns the items that did not pass, in report order.
func (r *Result) Unmet() []Item {
	if r == nil {
		return nil
	}

	var unmet []Item
	for _, item := range r.Items {
		if item.Outcome != Passed {
			unmet = append(unmet, item)
		}
	}
	return unmet
}
