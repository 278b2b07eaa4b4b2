package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/admissions-eligibility/internal/advisor"
	"github.com/spigell/admissions-eligibility/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Advisor asks Gemini for remediation advice on an evaluated result.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewAdvisor(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Advisor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Advisor) Advise(ctx context.Context, req advisor.Request) (*advisor.Advice, error) {
	if req.Result == nil {
		return nil, errors.New("evaluation result is required")
	}

	resultJSON, err := json.MarshalIndent(req.Result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result payload: %w", err)
	}

	summaryJSON, err := json.MarshalIndent(req.Summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary payload: %w", err)
	}

	prompt := buildPrompt(courseLine(req), string(resultJSON), string(summaryJSON))

	a.logger.Debug("gemini advice request",
		zap.String("student_id", req.StudentID),
		zap.String("course_id", req.CourseID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini advice response",
		zap.String("student_id", req.StudentID),
		zap.String("course_id", req.CourseID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	advice, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	advice.Raw = raw
	return advice, nil
}

func courseLine(req advisor.Request) string {
	if name := strings.TrimSpace(req.CourseName); name != "" {
		return fmt.Sprintf("%s (%s)", name, req.CourseID)
	}
	return req.CourseID
}

func buildPrompt(course, resultJSON, summaryJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Course: {{COURSE}}\n\nEvaluation:\n{{RESULT_JSON}}\n\nSummary:\n{{SUMMARY_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{COURSE}}", course)
	prompt = strings.ReplaceAll(prompt, "{{RESULT_JSON}}", resultJSON)
	prompt = strings.ReplaceAll(prompt, "{{SUMMARY_JSON}}", summaryJSON)
	return prompt
}

func parseResponse(raw string) (*advisor.Advice, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	advice := &advisor.Advice{
		Message:   coerceString(data["message"]),
		NextSteps: coerceStrings(data["next_steps"]),
	}

	if advice.Message == "" && len(advice.NextSteps) == 0 {
		return nil, errors.New("gemini response has no advice")
	}

	return advice, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		steps := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				steps = append(steps, s)
			}
		}
		return steps
	default:
		if s := coerceString(val); s != "" {
			return []string{s}
		}
		return nil
	}
}
