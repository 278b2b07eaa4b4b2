package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/admissions-eligibility/internal/grade"
)

func TestNewAcceptsValidSpec(t *testing.T) {
	spec, err := New("cs101", 30,
		[]SubjectRequirement{{Subject: "Mathematics", MinimumGrade: grade.B}},
		[]CategoryRequirement{{
			Category:     "Sciences",
			Subjects:     []string{"Physics", "Chemistry", "Biology"},
			MinimumGrade: grade.C,
			MinimumCount: 1,
		}},
	)
	require.NoError(t, err)
	assert.Equal(t, "cs101", spec.CourseID)
	assert.False(t, spec.IsEmpty())
}

func TestNewCopiesInputSlices(t *testing.T) {
	subjects := []SubjectRequirement{{Subject: "Mathematics", MinimumGrade: grade.B}}
	sciences := []string{"Physics"}

	spec, err := New("cs101", 0, subjects, []CategoryRequirement{{
		Category: "Sciences", Subjects: sciences, MinimumGrade: grade.C, MinimumCount: 1,
	}})
	require.NoError(t, err)

	subjects[0].Subject = "Changed"
	sciences[0] = "Changed"

	assert.Equal(t, "Mathematics", spec.Subjects[0].Subject)
	assert.Equal(t, "Physics", spec.Categories[0].Subjects[0])
}

func TestNewRejectsMalformedSpecs(t *testing.T) {
	tests := []struct {
		name       string
		credits    int
		subjects   []SubjectRequirement
		categories []CategoryRequirement
	}{
		{
			name:    "negative credits",
			credits: -1,
		},
		{
			name:     "zero grade",
			subjects: []SubjectRequirement{{Subject: "Mathematics"}},
		},
		{
			name:     "blank subject",
			subjects: []SubjectRequirement{{Subject: " ", MinimumGrade: grade.A}},
		},
		{
			name: "count above listed subjects",
			categories: []CategoryRequirement{{
				Category: "Sciences", Subjects: []string{"Physics"}, MinimumGrade: grade.C, MinimumCount: 2,
			}},
		},
		{
			name: "negative count",
			categories: []CategoryRequirement{{
				Category: "Sciences", Subjects: []string{"Physics"}, MinimumGrade: grade.C, MinimumCount: -1,
			}},
		},
		{
			name: "empty category",
			categories: []CategoryRequirement{{
				Category: "Sciences", MinimumGrade: grade.C,
			}},
		},
		{
			name: "duplicate category subject",
			categories: []CategoryRequirement{{
				Category: "Sciences", Subjects: []string{"Physics", "physics"}, MinimumGrade: grade.C, MinimumCount: 1,
			}},
		},
		{
			name: "invalid category grade",
			categories: []CategoryRequirement{{
				Category: "Sciences", Subjects: []string{"Physics"}, MinimumGrade: grade.Grade(99), MinimumCount: 1,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("c-1", tt.credits, tt.subjects, tt.categories)
			assert.ErrorIs(t, err, ErrInvalidRequirementSpec)
		})
	}
}

func TestDuplicateSubjectRequirementsAreKept(t *testing.T) {
	spec, err := New("c-1", 0, []SubjectRequirement{
		{Subject: "Mathematics", MinimumGrade: grade.B},
		{Subject: "Mathematics", MinimumGrade: grade.A},
	}, nil)
	require.NoError(t, err)
	assert.Len(t, spec.Subjects, 2)
}

func TestValidateNilSpec(t *testing.T) {
	var spec *Spec
	assert.ErrorIs(t, spec.Validate(), ErrInvalidRequirementSpec)
	assert.True(t, spec.IsEmpty())
}
