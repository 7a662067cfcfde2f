package model

import "strings"

// Grade is a letter grade or a pass/fail marker as printed on a transcript.
type Grade string

const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeCPlus  Grade = "C+"
	GradeC      Grade = "C"
	GradeCMinus Grade = "C-"
	GradeDPlus  Grade = "D+"
	GradeD      Grade = "D"
	GradeDMinus Grade = "D-"
	GradeF      Grade = "F"

	// Markers without a grade-point equivalent.
	GradePass       Grade = "P"
	GradeNoPass     Grade = "NP"
	GradeCredit     Grade = "CR"
	GradeNoCredit   Grade = "NC"
	GradeInProgress Grade = "IP"
	GradeWithdrawn  Grade = "W"
	GradeIncomplete Grade = "I"
)

// Normalize upper-cases the grade and strips surrounding whitespace.
func (g Grade) Normalize() Grade {
	return Grade(strings.ToUpper(strings.TrimSpace(string(g))))
}

// Known reports whether the grade is a letter grade or a recognized marker.
func (g Grade) Known() bool {
	switch g.Normalize() {
	case GradeAPlus, GradeA, GradeAMinus,
		GradeBPlus, GradeB, GradeBMinus,
		GradeCPlus, GradeC, GradeCMinus,
		GradeDPlus, GradeD, GradeDMinus, GradeF,
		GradePass, GradeNoPass, GradeCredit, GradeNoCredit,
		GradeInProgress, GradeWithdrawn, GradeIncomplete:
		return true
	}
	return false
}

// CompletedCourse is a single transcript line. Records are never edited in
// place; a transcript upload replaces the whole list.
type CompletedCourse struct {
	CourseCode string  `json:"course_code" binding:"required,coursecode"`
	CourseName string  `json:"course_name" binding:"max=200"`
	Units      float64 `json:"units" binding:"gt=0,lte=30"`
	Grade      Grade   `json:"grade" binding:"required,grade"`
	Term       string  `json:"term" binding:"max=40"`
}

// Transcript is the ordered list of a student's completed courses.
type Transcript []CompletedCourse

// ReplaceTranscriptRequest is the payload for uploading a transcript.
type ReplaceTranscriptRequest struct {
	Courses []CompletedCourse `json:"courses" binding:"required,max=200,dive"`
}
