package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stemsi/transfer-backend/internal/catalog"
	"github.com/stemsi/transfer-backend/internal/llm"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository/memory"
	"github.com/stemsi/transfer-backend/internal/service"
	"github.com/stemsi/transfer-backend/internal/validator"
	"golang.org/x/term"
)

const localEmail = "local@transferctl"

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a transcript against a major's transfer requirements",
	Long: `Evaluate reads a transcript (JSON array of courses, or an object with a
"courses" array) and prints the eligibility report. Output is text on a
terminal and JSON otherwise; --format overrides.`,
	RunE: runEvaluate,
}

var (
	evalTranscript string
	evalUniversity string
	evalMajor      string
	evalCollege    string
	evalFormat     string
	evalExplain    bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evalTranscript, "transcript", "t", "", "Path to transcript JSON, or - for stdin (required)")
	evaluateCmd.Flags().StringVar(&evalUniversity, "university", "ucsc", "Target university id")
	evaluateCmd.Flags().StringVar(&evalMajor, "major", "", "Target major (required)")
	evaluateCmd.Flags().StringVar(&evalCollege, "college", "", "Community college the courses were taken at (required)")
	evaluateCmd.Flags().StringVar(&evalFormat, "format", "auto", "Output format: auto, text or json")
	evaluateCmd.Flags().BoolVar(&evalExplain, "explain", false, "Append an advisor summary (needs GEMINI_API_KEY)")
	_ = evaluateCmd.MarkFlagRequired("transcript")
	_ = evaluateCmd.MarkFlagRequired("major")
	_ = evaluateCmd.MarkFlagRequired("college")

	rootCmd.AddCommand(evaluateCmd)
}

type evaluation struct {
	Result  *model.EligibilityRecord `json:"result"`
	Advisor *model.AdvisorSummary    `json:"advisor,omitempty"`
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	format, err := resolveFormat(evalFormat, out)
	if err != nil {
		return err
	}

	courses, err := readTranscript(cmd.InOrStdin(), evalTranscript)
	if err != nil {
		return err
	}

	cat, err := catalog.LoadDir(ctx, resolveCatalogDir())
	if err != nil {
		return err
	}

	// The evaluation runs through the same services as the API, backed by
	// in-process stores.
	log := zerolog.Nop()
	students := memory.NewStudents()
	transcripts := memory.NewTranscripts()
	reports := memory.NewReports()
	studentSvc := service.NewStudentService(students, cat, nil, log)
	transcriptSvc := service.NewTranscriptService(students, transcripts, nil, log)
	eligibilitySvc := service.NewEligibilityService(students, transcripts, reports, memory.NewCache(), cat, log)

	if _, err := studentSvc.Register(ctx, model.RegisterStudentRequest{
		Email: localEmail, Name: "local", Major: evalMajor, CommunityCollege: evalCollege,
	}); err != nil {
		return err
	}
	if _, err := studentSvc.SelectTarget(ctx, localEmail, model.SelectTargetRequest{
		TargetUniversity: evalUniversity, TargetMajor: evalMajor,
	}); err != nil {
		return err
	}
	if _, err := transcriptSvc.Replace(ctx, localEmail, courses); err != nil {
		return err
	}
	rec, err := eligibilitySvc.Verify(ctx, localEmail)
	if err != nil {
		return err
	}

	result := evaluation{Result: rec}
	if evalExplain {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("--explain requires GEMINI_API_KEY")
		}
		modelName := os.Getenv("GEMINI_MODEL")
		if modelName == "" {
			modelName = "gemini-1.5-flash"
		}
		gemini, err := llm.NewGeminiClient(ctx, apiKey, modelName)
		if err != nil {
			return err
		}
		defer gemini.Close()

		advisor := service.NewAdvisorService(students, eligibilitySvc, gemini, log)
		if result.Advisor, err = advisor.Summarize(ctx, localEmail); err != nil {
			return err
		}
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	renderText(out, result)
	return nil
}

// resolveFormat picks text for interactive terminals and JSON for pipes.
func resolveFormat(format string, out io.Writer) (string, error) {
	switch format {
	case "text", "json":
		return format, nil
	case "auto", "":
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "text", nil
		}
		return "json", nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, text or json)", format)
	}
}

func readTranscript(stdin io.Reader, path string) ([]model.CompletedCourse, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	var req model.ReplaceTranscriptRequest
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &req.Courses)
	} else {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	if fields := validator.Struct(&req); fields != nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, k+": "+fields[k])
		}
		return nil, fmt.Errorf("invalid transcript:\n  %s", strings.Join(msgs, "\n  "))
	}
	return req.Courses, nil
}

func renderText(w io.Writer, result evaluation) {
	rec := result.Result
	r := rec.Report

	fmt.Fprintf(w, "%s at %s\n", r.Summary.Major, r.Summary.University)
	fmt.Fprintf(w, "Status: %s\n", strings.ToUpper(strings.ReplaceAll(string(r.Status), "_", " ")))
	fmt.Fprintf(w, "  %s\n\n", r.Message)

	fmt.Fprintf(w, "GPA    %.2f (minimum %.2f)\n", r.Summary.GPA, r.Summary.MinGPA)
	fmt.Fprintf(w, "Units  %g (range %g-%g)\n\n", r.Summary.TotalUnits, r.Summary.MinUnits, r.Summary.MaxUnits)

	fmt.Fprintln(w, "Major preparation:")
	for _, req := range r.MajorRequirements.Completed {
		fmt.Fprintf(w, "  [x] %s (%s)\n", req.Requirement, req.MatchedCourse)
	}
	for _, req := range r.MajorRequirements.Missing {
		fmt.Fprintf(w, "  [ ] %s: any of %s\n", req.Requirement, strings.Join(req.AcceptableCourses, ", "))
	}

	if len(r.Areas) > 0 {
		fmt.Fprintln(w, "\nGeneral education areas:")
		for _, a := range r.Areas {
			mark := " "
			if a.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %s %s (%d/%d)\n", mark, a.Tag, a.Name, a.CoursesCompleted, a.CoursesNeeded)
		}
	}

	if len(r.Risks) > 0 {
		fmt.Fprintln(w, "\nRisks:")
		for _, risk := range r.Risks {
			fmt.Fprintf(w, "  %-6s %-10s %s\n", risk.Severity, risk.Category, risk.Message)
		}
	}

	if len(r.Notes) > 0 {
		fmt.Fprintln(w, "\nNotes:")
		for _, n := range r.Notes {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}

	if len(r.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, s := range r.Sources {
			fmt.Fprintf(w, "  %s: %s\n", s.Label, s.URL)
		}
	}

	if result.Advisor != nil {
		fmt.Fprintf(w, "\nAdvisor (%s):\n%s\n", result.Advisor.Model, result.Advisor.Summary)
	}

	fmt.Fprintf(w, "\n%s\n", r.Disclaimer)
	fmt.Fprintf(w, "Digest: %s\n", rec.Digest)
}
