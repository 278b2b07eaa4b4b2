package eligibility

import (
	"go.uber.org/zap"

	"github.com/spigell/admissions-eligibility/internal/profile"
	"github.com/spigell/admissions-eligibility/internal/requirement"
)

// Engine runs Evaluate and logs every step of the breakdown.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

func (e *Engine) Evaluate(p *profile.Profile, spec *requirement.Spec) (*Result, error) {
	result, err := Evaluate(p, spec)
	if err != nil {
		return nil, err
	}

	steps := Checks(spec)
	for i, item := range result.Items {
		e.logger.Debug("requirement step",
			zap.String("name", steps[i].Name()),
			zap.String("label", item.Label),
			zap.String("outcome", string(item.Outcome)),
			zap.String("detail", item.Detail),
		)
	}

	if len(result.UnrecognizedSubjects) > 0 {
		e.logger.Warn("profile has unrecognized grades",
			zap.String("student_id", p.StudentID),
			zap.Strings("subjects", result.UnrecognizedSubjects),
		)
	}

	e.logger.Info("eligibility evaluated",
		zap.String("student_id", p.StudentID),
		zap.String("course_id", spec.CourseID),
		zap.Bool("eligible", result.IsEligible),
		zap.Int("total_credits", result.TotalCredits),
		zap.Int("required_credits", result.RequiredCredits),
		zap.Int("passed", result.Passed()),
		zap.Int("unmet", len(result.Unmet())),
	)

	return result, nil
}
