package summary

import (
	"fmt"
	"strings"

	"github.com/spigell/admissions-eligibility/internal/eligibility"
)

type Status string

const (
	StatusEligible   Status = "eligible"
	StatusIneligible Status = "ineligible"
)

// Display is the caller-facing projection of an eligibility result.
type Display struct {
	Status               Status   `json:"status"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	CreditsLabel         string   `json:"credits_label"`
	PassedCount          int      `json:"passed_count"`
	FailedOrMissingCount int      `json:"failed_or_missing_count"`
	NeedsReview          bool     `json:"needs_review"`
	Remediation          []string `json:"remediation,omitempty"`
}

// Summarize reshapes a result for display. It never changes the verdict.
func Summarize(result *eligibility.Result) Display {
	if result == nil {
		return Display{
			Status:      StatusIneligible,
			Title:       "Eligibility unknown",
			Description: "No evaluation result is available.",
		}
	}

	unmet := result.Unmet()
	d := Display{
		CreditsLabel:         fmt.Sprintf("%d/%d credits", result.TotalCredits, result.RequiredCredits),
		PassedCount:          result.Passed(),
		FailedOrMissingCount: len(unmet),
		NeedsReview:          len(result.UnrecognizedSubjects) > 0,
	}

	if result.IsEligible {
		d.Status = StatusEligible
		d.Title = "You are eligible for this course"
		d.Description = fmt.Sprintf("All %d admission requirements are met.", len(result.Items))
	} else {
		d.Status = StatusIneligible
		d.Title = "You do not meet the admission requirements yet"
		d.Description = fmt.Sprintf("%d of %d requirements not met: %s.", len(unmet), len(result.Items), labels(unmet))
	}

	for _, item := range unmet {
		d.Remediation = append(d.Remediation, remediation(item))
	}

	if d.NeedsReview {
		d.Description += fmt.Sprintf(" Grades for %s could not be read and need manual review.",
			strings.Join(result.UnrecognizedSubjects, ", "))
	}

	return d
}

func labels(items []eligibility.Item) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Label)
	}
	return strings.Join(names, ", ")
}

func remediation(item eligibility.Item) string {
	switch {
	case item.Kind == eligibility.KindCredits:
		return fmt.Sprintf("Raise your total credits (%s).", item.Detail)
	case item.Outcome == eligibility.Missing:
		return fmt.Sprintf("Provide a result for %s (%s).", item.Label, item.Detail)
	default:
		return fmt.Sprintf("Improve %s (%s).", item.Label, item.Detail)
	}
}
