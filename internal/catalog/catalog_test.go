package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/admissions-eligibility/internal/grade"
	"github.com/spigell/admissions-eligibility/internal/requirement"
)

const fixture = `
students:
  - id: 42
    name: Jane Doe
    subjects:
      - name: Mathematics
        grade: A
      - name: English
        grade: B
      - name: Physics
        grade: b
  - id: s-2
    subjects:
      - name: Biology
        grade: D

courses:
  - id: cs
    name: Computer Science
    minimum-credits: 30
    subjects:
      - subject: Mathematics
        minimum-grade: B
    categories:
      - name: Sciences
        subjects: [Physics, Chemistry, Biology]
        minimum-grade: C
        minimum-count: 1
  - id: broken
    name: Broken Course
    minimum-credits: -1
    subjects:
      - subject: Mathematics
        minimum-grade: A+
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadResolvesProfilesAndRequirements(t *testing.T) {
	c, err := Load(writeFixture(t, fixture))
	require.NoError(t, err)

	ctx := context.Background()

	p, err := c.Profile(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", p.StudentID)
	assert.Equal(t, 31, p.Credits())

	subject, ok := p.Lookup("physics")
	require.True(t, ok)
	assert.Equal(t, "Physics", subject.Name)

	spec, err := c.Requirements(ctx, "cs")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", spec.CourseName)
	assert.Equal(t, 30, spec.MinimumCredits)
	assert.Equal(t, []requirement.SubjectRequirement{{Subject: "Mathematics", MinimumGrade: grade.B}}, spec.Subjects)
	require.Len(t, spec.Categories, 1)
	assert.Equal(t, []string{"Physics", "Chemistry", "Biology"}, spec.Categories[0].Subjects)
}

func TestLookupsReportNotFound(t *testing.T) {
	c, err := Load(writeFixture(t, fixture))
	require.NoError(t, err)

	_, err = c.Profile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Requirements(context.Background(), "med")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMalformedCourseIsReportedNotLoaded(t *testing.T) {
	c, err := Load(writeFixture(t, fixture))
	require.NoError(t, err)

	_, err = c.Requirements(context.Background(), "broken")
	assert.ErrorIs(t, err, requirement.ErrInvalidRequirementSpec)

	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	courses := c.Courses()
	require.Len(t, courses, 2)
	assert.Equal(t, "cs", courses[0].ID)
	assert.NoError(t, courses[0].Err)
	assert.Error(t, courses[1].Err)
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Student{{ID: "1"}, {ID: "1"}}, nil)
	assert.Error(t, err)

	_, err = New(nil, []map[string]any{{"id": "cs"}, {"id": "cs"}})
	assert.Error(t, err)

	_, err = New(nil, []map[string]any{{"name": "no id"}})
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEmptyCatalogValidates(t *testing.T) {
	c, err := Load(writeFixture(t, "students: []\n"))
	require.NoError(t, err)
	assert.NoError(t, c.Validate())
	assert.Empty(t, c.Courses())
}
