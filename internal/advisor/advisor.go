package advisor

import (
	"context"

	"github.com/spigell/admissions-eligibility/internal/eligibility"
	"github.com/spigell/admissions-eligibility/internal/summary"
)

// Request carries an evaluated result to an advisor.
type Request struct {
	StudentID  string
	CourseID   string
	CourseName string
	Result     *eligibility.Result
	Summary    summary.Display
}

// Advice is free-form remediation guidance. It never changes the verdict.
type Advice struct {
	Message   string   `json:"message"`
	NextSteps []string `json:"next_steps,omitempty"`
	Raw       string   `json:"-"`
}

type Advisor interface {
	Advise(ctx context.Context, req Request) (*Advice, error)
}
