package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the advice provider name.
	FieldProvider = "advisor_provider"
	// FieldModel is the structured log field key for the advice model identifier.
	FieldModel = "advisor_model"
	// FieldStudent is the structured log field key for the evaluated student.
	FieldStudent = "student_id"
	// FieldCourse is the structured log field key for the evaluated course.
	FieldCourse = "course_id"
	// FieldEvaluation is the structured log field key for the evaluation identifier.
	FieldEvaluation = "evaluation_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, falling back to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields describes the advice provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the advice provider fields to the logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// EvaluationFields identifies a single evaluation in log entries.
func EvaluationFields(evaluationID, studentID, courseID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldEvaluation, Value: evaluationID},
		StringField{Key: FieldStudent, Value: studentID},
		StringField{Key: FieldCourse, Value: courseID},
	)
}

// WithEvaluation attaches the evaluation identifiers to the logger.
func WithEvaluation(logger *zap.Logger, evaluationID, studentID, courseID string) *zap.Logger {
	return WithFields(logger, EvaluationFields(evaluationID, studentID, courseID)...)
}
