package eligibility

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/admissions-eligibility/internal/grade"
	"github.com/spigell/admissions-eligibility/internal/profile"
	"github.com/spigell/admissions-eligibility/internal/requirement"
)

func TestEngineLogsStepsAndVerdict(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	engine := NewEngine(zap.New(core))

	p, err := profile.New("s-7", []profile.Entry{
		{Name: "Mathematics", Grade: "A"},
		{Name: "Art", Grade: "pass"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec, err := requirement.New("cs", 20, []requirement.SubjectRequirement{{Subject: "Mathematics", MinimumGrade: grade.B}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := engine.Evaluate(p, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsEligible {
		t.Fatalf("expected ineligible result, 11 credits is below 20")
	}

	if steps := observed.FilterMessage("requirement step").Len(); steps != 2 {
		t.Fatalf("expected 2 step entries, got %d", steps)
	}

	if warns := observed.FilterMessage("profile has unrecognized grades").Len(); warns != 1 {
		t.Fatalf("expected unrecognized grades warning, got %d", warns)
	}

	verdicts := observed.FilterMessage("eligibility evaluated").All()
	if len(verdicts) != 1 {
		t.Fatalf("expected 1 verdict entry, got %d", len(verdicts))
	}

	ctx := verdicts[0].ContextMap()
	if ctx["eligible"] != false {
		t.Fatalf("expected eligible=false, got %v", ctx["eligible"])
	}
	if ctx["course_id"] != "cs" {
		t.Fatalf("unexpected course_id: %v", ctx["course_id"])
	}
}

func TestEngineMatchesEvaluate(t *testing.T) {
	p, _ := profile.New("s-1", []profile.Entry{{Name: "Physics", Grade: "B"}})
	spec, _ := requirement.New("c", 5, nil, nil)

	direct, err := Evaluate(p, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logged, err := NewEngine(nil).Evaluate(p, spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if direct.IsEligible != logged.IsEligible || len(direct.Items) != len(logged.Items) {
		t.Fatalf("engine result differs from Evaluate: %+v vs %+v", logged, direct)
	}
}

func TestEnginePropagatesInvalidSpec(t *testing.T) {
	p, _ := profile.New("s-1", nil)

	_, err := NewEngine(zap.NewNop()).Evaluate(p, &requirement.Spec{MinimumCredits: -1})
	if err == nil {
		t.Fatal("expected error for invalid spec")
	}
}
