package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/admissions-eligibility/internal/advisor"
	"github.com/spigell/admissions-eligibility/internal/eligibility"
	"github.com/spigell/admissions-eligibility/internal/summary"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func ineligibleRequest() advisor.Request {
	result := &eligibility.Result{
		TotalCredits:    31,
		RequiredCredits: 34,
		Items: []eligibility.Item{
			{Kind: eligibility.KindCredits, Label: eligibility.TotalCreditsLabel, Outcome: eligibility.Failed, Detail: "31/34 credits"},
			{Kind: eligibility.KindSubject, Label: "Chemistry", Outcome: eligibility.Missing, Detail: "Chemistry not taken; grade B or better required"},
		},
	}

	return advisor.Request{
		StudentID:  "42",
		CourseID:   "med",
		CourseName: "Medicine",
		Result:     result,
		Summary:    summary.Summarize(result),
	}
}

func TestAdvisorAdvise(t *testing.T) {
	stub := &stubGenerator{response: `{"message": "Take Chemistry next term.", "next_steps": ["Enrol in Chemistry", " ", "Retake English"]}`}
	a := NewAdvisor(stub, 0, zap.NewNop())

	advice, err := a.Advise(context.Background(), ineligibleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if advice.Message != "Take Chemistry next term." {
		t.Fatalf("unexpected message: %q", advice.Message)
	}

	if len(advice.NextSteps) != 2 || advice.NextSteps[1] != "Retake English" {
		t.Fatalf("unexpected next steps: %v", advice.NextSteps)
	}

	if advice.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}

	for _, want := range []string{"Medicine (med)", `"31/34 credits"`, `"outcome": "missing"`, `"status": "ineligible"`} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt is missing %q:\n%s", want, stub.lastPrompt)
		}
	}

	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("prompt has unreplaced placeholders:\n%s", stub.lastPrompt)
	}
}

func TestAdvisorRequiresResult(t *testing.T) {
	a := NewAdvisor(&stubGenerator{}, 0, nil)

	if _, err := a.Advise(context.Background(), advisor.Request{CourseID: "med"}); err == nil {
		t.Fatal("expected error without result")
	}
}

func TestAdvisorPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	a := NewAdvisor(&stubGenerator{err: boom}, 0, nil)

	if _, err := a.Advise(context.Background(), ineligibleRequest()); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}

func TestParseResponseHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"message\": \"Improve Physics\", \"next_steps\": \"Book a tutor\"}\n```"

	advice, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if advice.Message != "Improve Physics" {
		t.Fatalf("unexpected message: %q", advice.Message)
	}

	if len(advice.NextSteps) != 1 || advice.NextSteps[0] != "Book a tutor" {
		t.Fatalf("unexpected next steps: %v", advice.NextSteps)
	}
}

func TestParseResponseRejectsEmptyAdvice(t *testing.T) {
	if _, err := parseResponse(`{"unrelated": true}`); err == nil {
		t.Fatal("expected error for empty advice")
	}

	if _, err := parseResponse("not json"); err == nil {
		t.Fatal("expected error for non-json response")
	}
}
