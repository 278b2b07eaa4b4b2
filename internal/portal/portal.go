package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/admissions-eligibility/internal/profile"
	"github.com/spigell/admissions-eligibility/internal/requirement"
)

const (
	userAgent         = "spigell/admissions-eligibility"
	defaultMaxRetries = 2
	retryDelay        = 500 * time.Millisecond
)

// Client reads academic profiles and course requirements from the portal REST backend.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	MaxRetries int
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		APIURL: strings.TrimRight(apiURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:     logger,
		UserAgent:  userAgent,
		MaxRetries: defaultMaxRetries,
	}
}

type profileResponse struct {
	StudentID string `mapstructure:"student_id"`
	Subjects  any    `mapstructure:"subjects"`
}

// Profile fetches GET /students/{id}/academic-profile.
func (c *Client) Profile(ctx context.Context, studentID string) (*profile.Profile, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("student id is required")
	}

	endpoint := fmt.Sprintf("%s/students/%s/academic-profile", c.APIURL, url.PathEscape(studentID))

	var raw map[string]any
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("student %q: %w", studentID, err)
	}

	return decodeProfile(studentID, raw)
}

// Requirements fetches GET /courses/{id}/requirements.
func (c *Client) Requirements(ctx context.Context, courseID string) (*requirement.Spec, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, fmt.Errorf("course id is required")
	}

	endpoint := fmt.Sprintf("%s/courses/%s/requirements", c.APIURL, url.PathEscape(courseID))

	var raw map[string]any
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("course %q: %w", courseID, err)
	}

	if raw == nil {
		raw = make(map[string]any)
	}
	if _, ok := raw["id"]; !ok {
		raw["id"] = courseID
	}

	return requirement.Decode(raw)
}
