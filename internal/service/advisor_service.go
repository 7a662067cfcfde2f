package service

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/model"
)

// TextGenerator produces free text from a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Model() string
}

var advisorPrompt = template.Must(template.New("advisor").Funcs(template.FuncMap{"join": strings.Join}).Parse(`You are helping a community college student understand a transfer eligibility report.
Write at most three short paragraphs in plain English. Do not invent requirements
that are not listed below, and end by reminding the student to confirm with a counselor.

Target: {{.Summary.Major}} at {{.Summary.University}}
Status: {{.Status}} ({{.Message}})
GPA: {{.Summary.GPA}} (minimum {{.Summary.MinGPA}})
Units: {{.Summary.TotalUnits}} (range {{.Summary.MinUnits}} to {{.Summary.MaxUnits}})
{{- if .MajorRequirements.Missing}}
Missing major preparation:
{{- range .MajorRequirements.Missing}}
- {{.Requirement}} (any of: {{join .AcceptableCourses ", "}})
{{- end}}
{{- end}}
{{- if .Risks}}
Risks:
{{- range .Risks}}
- [{{.Severity}}] {{.Category}}: {{.Message}}
{{- end}}
{{- end}}
`))

// AdvisorService turns the latest report into a plain-language summary.
type AdvisorService struct {
	students StudentStore
	results  *EligibilityService
	gen      TextGenerator
	log      zerolog.Logger
}

// NewAdvisorService creates a new AdvisorService. A nil generator disables
// summaries.
func NewAdvisorService(students StudentStore, results *EligibilityService, gen TextGenerator, log zerolog.Logger) *AdvisorService {
	return &AdvisorService{
		students: students,
		results:  results,
		gen:      gen,
		log:      log.With().Str("component", "advisor_service").Logger(),
	}
}

// Enabled reports whether a model is configured.
func (s *AdvisorService) Enabled() bool {
	return s.gen != nil
}

// Summarize explains the student's latest report.
func (s *AdvisorService) Summarize(ctx context.Context, email string) (*model.AdvisorSummary, error) {
	if s.gen == nil {
		return nil, ErrAdvisorDisabled
	}

	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}
	rec, err := s.results.latest(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildAdvisorPrompt(rec.Report)
	if err != nil {
		return nil, err
	}

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Int("student_id", student.ID).Msg("advisor generation failed")
		return nil, &GenerationError{Model: s.gen.Model(), Err: err}
	}

	return &model.AdvisorSummary{
		ReportID: rec.ID,
		Version:  rec.Version,
		Model:    s.gen.Model(),
		Summary:  text,
	}, nil
}

// BuildAdvisorPrompt renders the prompt for a report.
func BuildAdvisorPrompt(report model.EligibilityReport) (string, error) {
	var sb strings.Builder
	if err := advisorPrompt.Execute(&sb, report); err != nil {
		return "", fmt.Errorf("render advisor prompt: %w", err)
	}
	return sb.String(), nil
}
