package eligibility

import (
	"fmt"
	"strings"

	"github.com/spigell/admissions-eligibility/internal/grade"
	"github.com/spigell/admissions-eligibility/internal/profile"
	"github.com/spigell/admissions-eligibility/internal/requirement"
)

type totalCreditsCheck struct {
	minimum int
}

// NewTotalCredits creates the aggregate credit check.
func NewTotalCredits(minimum int) Check {
	return &totalCreditsCheck{minimum: minimum}
}

func (c *totalCreditsCheck) Name() string { return "total_credits" }

func (c *totalCreditsCheck) Apply(p *profile.Profile) Item {
	total := p.Credits()

	outcome := Failed
	if total >= c.minimum {
		outcome = Passed
	}

	return Item{
		Kind:    KindCredits,
		Label:   TotalCreditsLabel,
		Outcome: outcome,
		Detail:  fmt.Sprintf("%d/%d credits", total, c.minimum),
	}
}

type subjectGradeCheck struct {
	requirement requirement.SubjectRequirement
}

// NewSubjectGrade creates a check for a single subject's minimum grade.
func NewSubjectGrade(r requirement.SubjectRequirement) Check {
	return &subjectGradeCheck{requirement: r}
}

func (c *subjectGradeCheck) Name() string { return "subject_grade" }

func (c *subjectGradeCheck) Apply(p *profile.Profile) Item {
	name := c.requirement.Subject
	minimum := c.requirement.MinimumGrade
	item := Item{Kind: KindSubject, Label: name}

	subject, ok := p.Lookup(name)
	switch {
	case !ok:
		item.Outcome = Missing
		item.Detail = fmt.Sprintf("%s not taken; grade %s or better required", name, minimum)
	case !subject.Recognized:
		item.Outcome = Missing
		item.Detail = fmt.Sprintf("%s has unrecognized grade %q; grade %s or better required", subject.Name, subject.RawGrade, minimum)
	case grade.MeetsOrExceeds(subject.Grade, minimum):
		item.Outcome = Passed
		item.Detail = fmt.Sprintf("grade %s, required %s or better", subject.Grade, minimum)
	default:
		item.Outcome = Failed
		item.Detail = fmt.Sprintf("grade %s, required %s or better", subject.Grade, minimum)
	}

	return item
}

type categoryCoverageCheck struct {
	requirement requirement.CategoryRequirement
}

// NewCategoryCoverage creates a check that counts qualifying subjects within a category.
func NewCategoryCoverage(r requirement.CategoryRequirement) Check {
	return &categoryCoverageCheck{requirement: r}
}

func (c *categoryCoverageCheck) Name() string { return "category_coverage" }

// Apply counts listed subjects held with a recognized grade at the minimum or better.
// Subjects held with an unrecognized grade count as not held.
func (c *categoryCoverageCheck) Apply(p *profile.Profile) Item {
	r := c.requirement
	item := Item{Kind: KindCategory, Label: r.Category}

	var qualified, held, unreadable []string
	for _, name := range r.Subjects {
		subject, ok := p.Lookup(name)
		if !ok {
			continue
		}
		if !subject.Recognized {
			unreadable = append(unreadable, fmt.Sprintf("%s has unrecognized grade %q", subject.Name, subject.RawGrade))
			continue
		}

		held = append(held, fmt.Sprintf("%s: %s", subject.Name, subject.Grade))
		if grade.MeetsOrExceeds(subject.Grade, r.MinimumGrade) {
			qualified = append(qualified, subject.Name)
		}
	}

	switch {
	case len(qualified) >= r.MinimumCount:
		item.Outcome = Passed
		item.Detail = fmt.Sprintf("%d of %d required at %s or better: %s",
			len(qualified), r.MinimumCount, r.MinimumGrade, listOrNone(qualified))
	case len(held) > 0:
		item.Outcome = Failed
		item.Detail = fmt.Sprintf("%d of %d required at %s or better; held %s",
			len(qualified), r.MinimumCount, r.MinimumGrade, strings.Join(held, ", "))
	case len(unreadable) > 0:
		item.Outcome = Missing
		item.Detail = fmt.Sprintf("no recognized grade in %s; %d required at %s or better",
			strings.Join(r.Subjects, ", "), r.MinimumCount, r.MinimumGrade)
	default:
		item.Outcome = Missing
		item.Detail = fmt.Sprintf("none of %s taken; %d required at %s or better",
			strings.Join(r.Subjects, ", "), r.MinimumCount, r.MinimumGrade)
	}

	if item.Outcome != Passed && len(unreadable) > 0 {
		item.Detail += "; " + strings.Join(unreadable, ", ")
	}

	return item
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
