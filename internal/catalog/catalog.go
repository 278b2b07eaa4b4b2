package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/admissions-eligibility/internal/profile"
	"github.com/spigell/admissions-eligibility/internal/requirement"
)

// ErrNotFound is returned when a student or course does not exist in the source.
var ErrNotFound = errors.New("not found")

// Source resolves evaluation inputs by identifier.
type Source interface {
	Profile(ctx context.Context, studentID string) (*profile.Profile, error)
	Requirements(ctx context.Context, courseID string) (*requirement.Spec, error)
}

// Student is a student record as stored in a catalog file.
type Student struct {
	ID       string          `mapstructure:"id"`
	Name     string          `mapstructure:"name"`
	Subjects []profile.Entry `mapstructure:"subjects"`
}

// Course describes a catalog course. Err is set when its requirements are malformed.
type Course struct {
	ID   string
	Name string
	Err  error

	spec *requirement.Spec
}

// Catalog is a file-backed Source.
type Catalog struct {
	students map[string]Student
	courses  []*Course
	index    map[string]int
}

// Load reads a catalog file. The format is picked from the file extension.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}

	var students []Student
	if err := v.UnmarshalKey("students", &students); err != nil {
		return nil, fmt.Errorf("decoding students: %w", err)
	}

	var courses []map[string]any
	if err := decodeCourses(v.Get("courses"), &courses); err != nil {
		return nil, fmt.Errorf("decoding courses: %w", err)
	}

	return New(students, courses)
}

func decodeCourses(raw any, target *[]map[string]any) error {
	if raw == nil {
		return nil
	}
	return mapstructure.Decode(raw, target)
}

// New builds a catalog from decoded records. Malformed course documents are kept
// and reported from Requirements and Validate.
func New(students []Student, courses []map[string]any) (*Catalog, error) {
	c := &Catalog{
		students: make(map[string]Student, len(students)),
		index:    make(map[string]int, len(courses)),
	}

	for _, s := range students {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return nil, errors.New("student without id")
		}
		if _, ok := c.students[id]; ok {
			return nil, fmt.Errorf("duplicate student id %q", id)
		}
		c.students[id] = s
	}

	for i, raw := range courses {
		course := &Course{
			ID:   strings.TrimSpace(stringValue(raw["id"])),
			Name: strings.TrimSpace(stringValue(raw["name"])),
		}
		if course.ID == "" {
			return nil, fmt.Errorf("courses[%d]: course without id", i)
		}
		if _, ok := c.index[course.ID]; ok {
			return nil, fmt.Errorf("duplicate course id %q", course.ID)
		}

		course.spec, course.Err = requirement.Decode(raw)

		c.index[course.ID] = len(c.courses)
		c.courses = append(c.courses, course)
	}

	return c, nil
}

func (c *Catalog) Profile(_ context.Context, studentID string) (*profile.Profile, error) {
	s, ok := c.students[strings.TrimSpace(studentID)]
	if !ok {
		return nil, fmt.Errorf("student %q: %w", studentID, ErrNotFound)
	}

	return profile.New(s.ID, s.Subjects)
}

func (c *Catalog) Requirements(_ context.Context, courseID string) (*requirement.Spec, error) {
	idx, ok := c.index[strings.TrimSpace(courseID)]
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, ErrNotFound)
	}

	course := c.courses[idx]
	if course.Err != nil {
		return nil, course.Err
	}

	return course.spec, nil
}

// Courses lists the catalog courses in file order.
func (c *Catalog) Courses() []Course {
	out := make([]Course, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, *course)
	}
	return out
}

// Validate joins the errors of every malformed course.
func (c *Catalog) Validate() error {
	var errs []error
	for _, course := range c.courses {
		if course.Err != nil {
			errs = append(errs, course.Err)
		}
	}
	return errors.Join(errs...)
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
