package requirement

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/admissions-eligibility/internal/grade"
)

// Document is the authoring form of a course's requirements, as found in catalog files
// and portal responses. Grades are still free-form strings here.
type Document struct {
	ID             string             `mapstructure:"id" validate:"required"`
	Name           string             `mapstructure:"name"`
	MinimumCredits int                `mapstructure:"minimum-credits" validate:"gte=0"`
	Subjects       []SubjectDocument  `mapstructure:"subjects" validate:"dive"`
	Categories     []CategoryDocument `mapstructure:"categories" validate:"dive"`
}

type SubjectDocument struct {
	Subject      string `mapstructure:"subject" validate:"required"`
	MinimumGrade string `mapstructure:"minimum-grade" validate:"required"`
}

type CategoryDocument struct {
	Name         string   `mapstructure:"name" validate:"required"`
	Subjects     []string `mapstructure:"subjects" validate:"min=1,dive,required"`
	MinimumGrade string   `mapstructure:"minimum-grade" validate:"required"`
	MinimumCount int      `mapstructure:"minimum-count" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode turns a raw requirement document into a validated Spec.
func Decode(raw map[string]any) (*Spec, error) {
	var doc Document

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       wholeNumberHook,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidRequirementSpec, err)
	}

	return doc.Spec()
}

// wholeNumberHook keeps weak typing from truncating 29.9 to 29 or turning true into 1.
func wholeNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}

	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v is not a whole number", data)
		}
	case reflect.Bool:
		return nil, fmt.Errorf("%v is not a number", data)
	}

	return data, nil
}

// Spec validates the document and resolves its grade literals.
func (d Document) Spec() (*Spec, error) {
	if err := validate.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: course %q: %s", ErrInvalidRequirementSpec, d.ID, describe(err))
	}

	var gradeErrs []error

	subjects := make([]SubjectRequirement, 0, len(d.Subjects))
	for i, s := range d.Subjects {
		g, err := grade.Parse(s.MinimumGrade)
		if err != nil {
			gradeErrs = append(gradeErrs, fmt.Errorf("subjects[%d] %q: %w", i, s.Subject, err))
		}
		subjects = append(subjects, SubjectRequirement{Subject: strings.TrimSpace(s.Subject), MinimumGrade: g})
	}

	categories := make([]CategoryRequirement, 0, len(d.Categories))
	for i, c := range d.Categories {
		g, err := grade.Parse(c.MinimumGrade)
		if err != nil {
			gradeErrs = append(gradeErrs, fmt.Errorf("categories[%d] %q: %w", i, c.Name, err))
		}

		names := make([]string, 0, len(c.Subjects))
		for _, name := range c.Subjects {
			names = append(names, strings.TrimSpace(name))
		}

		categories = append(categories, CategoryRequirement{
			Category:     strings.TrimSpace(c.Name),
			Subjects:     names,
			MinimumGrade: g,
			MinimumCount: c.MinimumCount,
		})
	}

	if len(gradeErrs) > 0 {
		return nil, fmt.Errorf("%w: course %q: %w", ErrInvalidRequirementSpec, d.ID, errors.Join(gradeErrs...))
	}

	spec, err := New(d.ID, d.MinimumCredits, subjects, categories)
	if err != nil {
		return nil, err
	}
	spec.CourseName = strings.TrimSpace(d.Name)

	return spec, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Document.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s fails %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s fails %s", field, fe.Tag()))
	}

	return strings.Join(parts, "; ")
}
