package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/admissions-eligibility/internal/advisor"
	"github.com/spigell/admissions-eligibility/internal/advisor/gemini"
	"github.com/spigell/admissions-eligibility/internal/catalog"
	"github.com/spigell/admissions-eligibility/internal/eligibility"
	"github.com/spigell/admissions-eligibility/internal/logger"
	"github.com/spigell/admissions-eligibility/internal/portal"
	"github.com/spigell/admissions-eligibility/internal/render"
	"github.com/spigell/admissions-eligibility/internal/requirement"
	"github.com/spigell/admissions-eligibility/internal/secrets"
	"github.com/spigell/admissions-eligibility/internal/summary"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a student meets the admission requirements of a course",
	Run: func(cmd *cobra.Command, _ []string) {
		check(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("student", "s", "", "student id")
	checkCmd.Flags().StringP("course", "c", "", "course id. Prompted for when omitted on a terminal.")
	checkCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	checkCmd.Flags().Bool("advice", false, "ask the configured ai provider for remediation advice")

	viper.BindPFlag("output", checkCmd.Flags().Lookup("output"))
	viper.BindPFlag("ai.enabled", checkCmd.Flags().Lookup("advice"))
}

// report is the json output of the check command.
type report struct {
	EvaluationID string              `json:"evaluation_id"`
	StudentID    string              `json:"student_id"`
	CourseID     string              `json:"course_id"`
	CourseName   string              `json:"course_name,omitempty"`
	Result       *eligibility.Result `json:"result"`
	Summary      summary.Display     `json:"summary"`
	Advice       *advisor.Advice     `json:"advice,omitempty"`
}

func check(cmd *cobra.Command) {
	ctx := context.Background()

	baseLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		baseLogger.Fatal("getting a config", zap.Error(err))
	}

	opts := checkOptions{
		Output: strings.ToLower(strings.TrimSpace(viper.GetString("output"))),
	}
	opts.StudentID, _ = cmd.Flags().GetString("student")
	opts.CourseID, _ = cmd.Flags().GetString("course")

	source, err := newSource(config, baseLogger)
	if err != nil {
		baseLogger.Fatal("preparing a data source", zap.Error(err))
	}

	if strings.TrimSpace(opts.StudentID) != "" && strings.TrimSpace(opts.CourseID) == "" {
		opts.CourseID, err = selectCourse(source)
		if err != nil {
			baseLogger.Fatal("choosing a course", zap.Error(err))
		}
	}

	var adv advisor.Advisor
	if config.AI != nil && config.AI.Enabled {
		adv, err = newAdvisor(ctx, config.AI, baseLogger)
		if err != nil {
			baseLogger.Warn("advice is unavailable", zap.Error(err))
		}
	}

	if err := runCheck(ctx, cmd.OutOrStdout(), source, adv, opts, baseLogger); err != nil {
		baseLogger.Fatal("checking eligibility", sourceErrorFields(err)...)
	}
}

type checkOptions struct {
	StudentID string
	CourseID  string
	Output    string
}

// runCheck evaluates one student against one course and writes the report to out.
// The advisor is optional and only consulted for ineligible results.
func runCheck(ctx context.Context, out io.Writer, source catalog.Source, adv advisor.Advisor, opts checkOptions, baseLogger *zap.Logger) error {
	if opts.Output == "" {
		opts.Output = outputText
	}
	if opts.Output != outputText && opts.Output != outputJSON {
		return fmt.Errorf("unsupported output format %q", opts.Output)
	}

	studentID := strings.TrimSpace(opts.StudentID)
	if studentID == "" {
		return errors.New("student id is required (pass it with --student)")
	}
	courseID := strings.TrimSpace(opts.CourseID)
	if courseID == "" {
		return errors.New("course id is required (pass it with --course)")
	}

	evaluationID := uuid.NewString()
	evalLogger := logger.WithEvaluation(baseLogger, evaluationID, studentID, courseID)

	p, err := source.Profile(ctx, studentID)
	if err != nil {
		return fmt.Errorf("getting the academic profile: %w", err)
	}

	spec, err := source.Requirements(ctx, courseID)
	if err != nil {
		return fmt.Errorf("getting the course requirements: %w", err)
	}

	result, err := eligibility.NewEngine(evalLogger).Evaluate(p, spec)
	if err != nil {
		return err
	}

	display := summary.Summarize(result)

	var advice *advisor.Advice
	if adv != nil && !result.IsEligible {
		advice = getAdvice(ctx, adv, evalLogger, advisor.Request{
			StudentID:  p.StudentID,
			CourseID:   spec.CourseID,
			CourseName: spec.CourseName,
			Result:     result,
			Summary:    display,
		})
	}

	if opts.Output == outputJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report{
			EvaluationID: evaluationID,
			StudentID:    p.StudentID,
			CourseID:     spec.CourseID,
			CourseName:   spec.CourseName,
			Result:       result,
			Summary:      display,
			Advice:       advice,
		}); err != nil {
			return fmt.Errorf("writing the report: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprint(out, render.Breakdown(result, display)); err != nil {
		return err
	}
	if advice != nil {
		if _, err := fmt.Fprint(out, render.Advice(advice)); err != nil {
			return err
		}
	}

	return nil
}

func sourceErrorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		fields = append(fields, zap.String("hint", "check the id, `eligibility validate` lists catalog problems"))
	case errors.Is(err, requirement.ErrInvalidRequirementSpec):
		fields = append(fields, zap.String("hint", "the course requirements must be fixed before anyone can be evaluated"))
	}

	return fields
}

// newSource prefers a catalog file and falls back to the student portal.
func newSource(config *Config, logger *zap.Logger) (catalog.Source, error) {
	if path := strings.TrimSpace(config.Catalog); path != "" {
		c, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("using catalog", zap.String("path", path), zap.Int("courses", len(c.Courses())))
		return c, nil
	}

	if config.Portal == nil || strings.TrimSpace(config.Portal.URL) == "" {
		return nil, errors.New("neither a catalog nor a portal url is configured (set --catalog, ELIGIBILITY_CATALOG or portal.url)")
	}

	token, err := secrets.Optional(secrets.Source{
		Name: "portal token",
		File: config.Portal.TokenFile,
	})
	if err != nil {
		return nil, err
	}

	client := portal.New(logger, config.Portal.URL, token)
	if config.Portal.MaxRetries > 0 {
		client.MaxRetries = config.Portal.MaxRetries
	}
	client.UserAgent = fmt.Sprintf("%s/%s", app, version)

	logger.Debug("using portal", zap.String("url", client.APIURL))
	return client, nil
}

type courseLister interface {
	Courses() []catalog.Course
}

func selectCourse(source catalog.Source) (string, error) {
	lister, ok := source.(courseLister)
	if !ok {
		return "", errors.New("course id is required with a portal source (pass it with --course)")
	}

	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return "", errors.New("course id is required when stdin is not a terminal (pass it with --course)")
	}

	courses := lister.Courses()
	if len(courses) == 0 {
		return "", errors.New("catalog has no courses")
	}

	items := make([]string, 0, len(courses))
	for _, course := range courses {
		label := course.ID
		if course.Name != "" {
			label = fmt.Sprintf("%s (%s)", course.Name, course.ID)
		}
		if course.Err != nil {
			label += " [invalid]"
		}
		items = append(items, label)
	}

	prompt := promptui.Select{
		Label: "Choose a course",
		Items: items,
		Size:  10,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return courses[idx].ID, nil
}

// getAdvice never fails the check: the verdict is already decided.
func getAdvice(ctx context.Context, adv advisor.Advisor, logger *zap.Logger, req advisor.Request) *advisor.Advice {
	advice, err := adv.Advise(ctx, req)
	if err != nil {
		logger.Warn("getting advice", zap.Error(err))
		return nil
	}

	return advice
}

func newAdvisor(ctx context.Context, cfg *AIConfig, baseLogger *zap.Logger) (advisor.Advisor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		logger.WithFields(baseLogger, zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	advisorLogger := logger.WithCommonFields(baseLogger, "gemini", generator.Model())

	return gemini.NewAdvisor(generator, cfg.Gemini.MaxLogLength, advisorLogger), nil
}
