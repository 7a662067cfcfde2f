// Package eligibility evaluates a transcript against a transfer requirement
// profile. Everything here is pure: no I/O, no clocks, no shared state, so
// Evaluate is safe to call from any number of goroutines.
package eligibility

import (
	"encoding/hex"
	"encoding/json"

	"github.com/stemsi/transfer-backend/internal/model"
	"golang.org/x/crypto/blake2b"
)

const disclaimer = "This is a verification tool using official sources. It is NOT official advice. Always confirm with an academic counselor before making decisions."

// Evaluate produces the eligibility report for a transcript. It never fails:
// empty transcripts, unknown grades and unknown course codes degrade into
// risk findings rather than errors.
func Evaluate(transcript model.Transcript, profile model.RequirementProfile, equivalencies model.EquivalencyTable) model.EligibilityReport {
	completed := NewCodeSet(transcript)
	totals := Aggregate(transcript)
	majorReqs := CheckRequirements(completed, profile.Requirements)
	areas := CheckAreas(transcript, equivalencies, profile.Areas)

	risks := SynthesizeRisks(RiskInput{
		Totals:       totals,
		Profile:      profile,
		MissingPrep:  len(majorReqs.Missing),
		MissingAreas: MissingRequiredAreas(areas),
		AreaSource:   equivalencies.ArticulationURL,
	})

	status, message := DetermineStatus(
		len(majorReqs.Missing) == 0,
		totals.TotalUnits >= profile.MinUnits && totals.TotalUnits <= profile.MaxUnits,
		!BelowGPA(totals.GPA, profile.MinGPA),
	)

	notes := append([]string{}, profile.Notes...)

	return model.EligibilityReport{
		Status:  status,
		Message: message,
		Summary: model.ReportSummary{
			TotalUnits:  totals.TotalUnits,
			GradedUnits: totals.GradedUnits,
			GPA:         round2(totals.GPA),
			MinGPA:      profile.MinGPA,
			MinUnits:    profile.MinUnits,
			MaxUnits:    profile.MaxUnits,
			Major:       profile.Major,
			University:  profile.University,
		},
		MajorRequirements: majorReqs,
		Areas:             areas,
		Risks:             risks,
		Notes:             notes,
		Sources: []model.Citation{
			{Label: "university_transfer", URL: profile.SourceURL},
			{Label: "articulation", URL: orDefault(equivalencies.ArticulationURL, orDefault(profile.ArticulationURL, DefaultArticulationURL))},
			{Label: "igetc", URL: DefaultIGETCURL},
		},
		Disclaimer: disclaimer,
	}
}

// Digest fingerprints a report by hashing its JSON encoding with BLAKE2b-256.
// Equal reports always share a digest.
func Digest(report model.EligibilityReport) (string, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
