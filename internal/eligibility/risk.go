package eligibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stemsi/transfer-backend/internal/model"
)

const (
	// GPAWarningBand is how far above the minimum a GPA still draws a warning.
	GPAWarningBand = 0.3

	DefaultArticulationURL = "https://assist.org"
	DefaultIGETCURL        = "https://assist.org/transfer/igetc"
)

// RiskInput gathers what the risk rules look at.
type RiskInput struct {
	Totals       Totals
	Profile      model.RequirementProfile
	MissingPrep  int
	MissingAreas []string
	AreaSource   string
}

// SynthesizeRisks runs the rules in fixed order: GPA, unit floor, unit
// ceiling, major prep, areas. Each rule adds at most one finding.
func SynthesizeRisks(in RiskInput) []model.RiskFinding {
	risks := []model.RiskFinding{}
	p := in.Profile

	switch gpa := in.Totals.GPA; {
	case BelowGPA(gpa, p.MinGPA):
		risks = append(risks, model.RiskFinding{
			Category: model.RiskGPA,
			Severity: model.SeverityHigh,
			Message:  fmt.Sprintf("Your GPA (%.2f) is below the minimum requirement (%s)", gpa, num(p.MinGPA)),
			Source:   p.SourceURL,
		})
	case BelowGPA(gpa, p.MinGPA+GPAWarningBand):
		risks = append(risks, model.RiskFinding{
			Category: model.RiskGPA,
			Severity: model.SeverityMedium,
			Message:  fmt.Sprintf("Your GPA (%.2f) is close to the minimum. A higher GPA improves your chances.", gpa),
			Source:   p.SourceURL,
		})
	}

	units := in.Totals.TotalUnits
	if units < p.MinUnits {
		risks = append(risks, model.RiskFinding{
			Category: model.RiskUnits,
			Severity: model.SeverityHigh,
			Message:  fmt.Sprintf("You have %s units but need at least %s to transfer", num(units), num(p.MinUnits)),
			Source:   p.SourceURL,
		})
	}
	if units > p.MaxUnits {
		risks = append(risks, model.RiskFinding{
			Category: model.RiskUnits,
			Severity: model.SeverityMedium,
			Message:  fmt.Sprintf("You have %s units which exceeds the %s unit cap. Some units may not transfer.", num(units), num(p.MaxUnits)),
			Source:   p.SourceURL,
		})
	}

	if in.MissingPrep > 0 {
		risks = append(risks, model.RiskFinding{
			Category: model.RiskMajorPrep,
			Severity: model.SeverityHigh,
			Message:  fmt.Sprintf("You are missing %d required major preparation course(s)", in.MissingPrep),
			Source:   orDefault(p.ArticulationURL, DefaultArticulationURL),
		})
	}

	if len(in.MissingAreas) > 0 {
		risks = append(risks, model.RiskFinding{
			Category: model.RiskAreas,
			Severity: model.SeverityMedium,
			Message:  "IGETC areas not yet satisfied: " + strings.Join(in.MissingAreas, ", "),
			Source:   orDefault(in.AreaSource, DefaultIGETCURL),
		})
	}

	return risks
}

// num prints a decimal without trailing zeros: 60, 4.5, 3.05.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
