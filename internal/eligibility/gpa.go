package eligibility

import (
	"math"

	"github.com/stemsi/transfer-backend/internal/model"
)

// gradePoints is the 4.0 scale. Grades absent from the table (P, NP, CR, IP,
// W, ...) have no point value and are left out of the GPA.
var gradePoints = map[model.Grade]float64{
	model.GradeAPlus:  4.0,
	model.GradeA:      4.0,
	model.GradeAMinus: 3.7,
	model.GradeBPlus:  3.3,
	model.GradeB:      3.0,
	model.GradeBMinus: 2.7,
	model.GradeCPlus:  2.3,
	model.GradeC:      2.0,
	model.GradeCMinus: 1.7,
	model.GradeDPlus:  1.3,
	model.GradeD:      1.0,
	model.GradeDMinus: 0.7,
	model.GradeF:      0.0,
}

// GradePoints returns the point value of a grade, ignoring case and padding.
func GradePoints(g model.Grade) (float64, bool) {
	p, ok := gradePoints[g.Normalize()]
	return p, ok
}

// Totals are the unit and grade aggregates of a transcript.
type Totals struct {
	TotalUnits  float64
	GradedUnits float64
	GradePoints float64
	GPA         float64
}

// Aggregate sums units and computes the unit-weighted GPA.
//
// TotalUnits counts every course regardless of grade, because transfer unit
// caps count every unit attempted. Only courses with a recognized grade and
// positive units weight the GPA.
func Aggregate(transcript model.Transcript) Totals {
	var t Totals
	for _, c := range transcript {
		t.TotalUnits += c.Units

		points, ok := GradePoints(c.Grade)
		if !ok || c.Units <= 0 {
			continue
		}
		t.GradePoints += points * c.Units
		t.GradedUnits += c.Units
	}
	if t.GradedUnits > 0 {
		t.GPA = t.GradePoints / t.GradedUnits
	}
	return t
}

// gpaTolerance absorbs the float error of unit-weighted sums. Grade points and
// catalog minimums carry at most two decimals.
const gpaTolerance = 1e-9

// BelowGPA reports whether gpa is under min. Values within gpaTolerance of min
// count as equal, so a GPA of exactly 2.8 summed as 2.7999... still meets 2.8.
func BelowGPA(gpa, min float64) bool {
	return gpa+gpaTolerance < min
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
