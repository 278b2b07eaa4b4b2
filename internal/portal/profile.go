package portal

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/admissions-eligibility/internal/profile"
)

// decodeProfile accepts subjects either as a list of {name, grade} objects
// or as a single name to grade object.
func decodeProfile(studentID string, raw map[string]any) (*profile.Profile, error) {
	var resp profileResponse
	if err := mapstructure.WeakDecode(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode academic profile: %w", err)
	}

	if resp.StudentID == "" {
		resp.StudentID = studentID
	}

	switch subjects := resp.Subjects.(type) {
	case nil:
		return profile.New(resp.StudentID, nil)
	case []any:
		var entries []profile.Entry
		if err := mapstructure.WeakDecode(subjects, &entries); err != nil {
			return nil, fmt.Errorf("decode subjects: %w", err)
		}
		return profile.New(resp.StudentID, entries)
	case map[string]any:
		grades := make(map[string]string, len(subjects))
		for name, value := range subjects {
			grades[name] = valueAsString(value)
		}
		return profile.FromMap(resp.StudentID, grades)
	default:
		return nil, fmt.Errorf("%w: unexpected subjects type %T", profile.ErrInvalidProfile, subjects)
	}
}

func valueAsString(v any) string {
	if v == nil {
		return ""
	}

	switch typed := v.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
