package model

import (
	"time"

	"github.com/google/uuid"
)

// EligibilityStatus is the overall verdict of an evaluation.
type EligibilityStatus string

const (
	StatusLikelyEligible EligibilityStatus = "likely_eligible"
	StatusConditional    EligibilityStatus = "conditional"
	StatusNotYetEligible EligibilityStatus = "not_yet_eligible"
)

// Severity ranks a risk finding.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RiskCategory tags the rule that produced a finding.
type RiskCategory string

const (
	RiskGPA       RiskCategory = "GPA"
	RiskUnits     RiskCategory = "Units"
	RiskMajorPrep RiskCategory = "Major Prep"
	RiskAreas     RiskCategory = "IGETC"
)

// RiskFinding is one itemized warning in a report.
type RiskFinding struct {
	Category RiskCategory `json:"type"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	Source   string       `json:"source"`
}

// RequirementStatus is the outcome of matching one major requirement.
type RequirementStatus struct {
	Requirement       string   `json:"requirement"`
	Completed         bool     `json:"completed"`
	MatchedCourse     string   `json:"matched_course,omitempty"`
	AcceptableCourses []string `json:"acceptable_courses"`
}

// AreaStatus is the outcome of checking one general-education area.
type AreaStatus struct {
	Tag              string `json:"tag"`
	Name             string `json:"name"`
	Required         bool   `json:"required"`
	Completed        bool   `json:"completed"`
	CoursesCompleted int    `json:"courses_completed"`
	CoursesNeeded    int    `json:"courses_needed"`
}

// ReportSummary carries the headline metrics of a report.
type ReportSummary struct {
	TotalUnits  float64 `json:"total_units"`
	GradedUnits float64 `json:"graded_units"`
	GPA         float64 `json:"gpa"`
	MinGPA      float64 `json:"min_gpa_required"`
	MinUnits    float64 `json:"min_units"`
	MaxUnits    float64 `json:"max_units"`
	Major       string  `json:"major"`
	University  string  `json:"target_university"`
}

// MajorRequirements splits requirement outcomes into completed and missing.
type MajorRequirements struct {
	Completed []RequirementStatus `json:"completed"`
	Missing   []RequirementStatus `json:"missing"`
}

// Citation points at the authority behind a report section.
type Citation struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// EligibilityReport is the evaluator's verdict. It holds no timestamps so that
// identical inputs always produce identical reports.
type EligibilityReport struct {
	Status            EligibilityStatus `json:"eligibility_status"`
	Message           string            `json:"eligibility_message"`
	Summary           ReportSummary     `json:"summary"`
	MajorRequirements MajorRequirements `json:"major_requirements"`
	Areas             []AreaStatus      `json:"igetc_status"`
	Risks             []RiskFinding     `json:"risks"`
	Notes             []string          `json:"notes"`
	Sources           []Citation        `json:"sources"`
	Disclaimer        string            `json:"disclaimer"`
}

// EligibilityRecord is a persisted, versioned report for one student.
type EligibilityRecord struct {
	ID         uuid.UUID         `json:"id"`
	StudentID  int               `json:"student_id"`
	Version    int               `json:"version"`
	University string            `json:"university"`
	Major      string            `json:"major"`
	Digest     string            `json:"digest"`
	Report     EligibilityReport `json:"report"`
	CreatedAt  time.Time         `json:"created_at"`
}

// EligibilityRecordSummary is a history row without the report body.
type EligibilityRecordSummary struct {
	ID         uuid.UUID         `json:"id"`
	Version    int               `json:"version"`
	Status     EligibilityStatus `json:"status"`
	University string            `json:"university"`
	Major      string            `json:"major"`
	Digest     string            `json:"digest"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ReportReceipt is a signed attestation of a stored report.
type ReportReceipt struct {
	Token     string    `json:"token"`
	ReportID  uuid.UUID `json:"report_id"`
	Version   int       `json:"version"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReceiptVerification is the result of checking a receipt token.
type ReceiptVerification struct {
	Valid    bool              `json:"valid"`
	ReportID uuid.UUID         `json:"report_id"`
	Version  int               `json:"version"`
	Status   EligibilityStatus `json:"status"`
	Email    string            `json:"email"`
	IssuedAt time.Time         `json:"issued_at"`
}

// VerifyReceiptRequest is the payload for checking a receipt.
type VerifyReceiptRequest struct {
	Token string `json:"token" binding:"required"`
}

// AdvisorSummary is a plain-language explanation of a stored report.
type AdvisorSummary struct {
	ReportID uuid.UUID `json:"report_id"`
	Version  int       `json:"version"`
	Model    string    `json:"model"`
	Summary  string    `json:"summary"`
}
