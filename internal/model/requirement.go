package model

import "strings"

// MajorRequirement is a major-preparation course; any one of the equivalent
// codes satisfies it.
type MajorRequirement struct {
	Name            string   `json:"name"`
	EquivalentCodes []string `json:"equivalent_codes"`
}

// AreaRequirement is a general-education (IGETC) area.
type AreaRequirement struct {
	Tag           string `json:"tag"`
	Name          string `json:"name"`
	Required      bool   `json:"required"`
	CoursesNeeded int    `json:"courses_needed,omitempty"`
}

// RequirementProfile holds the transfer requirements of one major at one university.
type RequirementProfile struct {
	University      string             `json:"university"`
	Major           string             `json:"major"`
	Requirements    []MajorRequirement `json:"required_courses"`
	Areas           []AreaRequirement  `json:"areas"`
	MinGPA          float64            `json:"min_gpa"`
	MinUnits        float64            `json:"min_units"`
	MaxUnits        float64            `json:"max_units"`
	Notes           []string           `json:"notes"`
	SourceURL       string             `json:"source_url"`
	ArticulationURL string             `json:"articulation_url,omitempty"`
}

// Equivalency describes how a community-college course articulates.
type Equivalency struct {
	TargetCode string   `json:"target_code"`
	Units      float64  `json:"units"`
	Areas      []string `json:"areas"`
}

// EquivalencyTable is the articulation table of one institution, keyed by
// normalized local course code.
type EquivalencyTable struct {
	Institution     string                 `json:"institution"`
	ArticulationURL string                 `json:"articulation_url,omitempty"`
	Courses         map[string]Equivalency `json:"courses"`
}

// NewEquivalencyTable builds a table whose keys are normalized course codes.
func NewEquivalencyTable(institution, articulationURL string, courses map[string]Equivalency) EquivalencyTable {
	normalized := make(map[string]Equivalency, len(courses))
	for code, eq := range courses {
		normalized[NormalizeCourseCode(code)] = eq
	}
	return EquivalencyTable{
		Institution:     institution,
		ArticulationURL: articulationURL,
		Courses:         normalized,
	}
}

// Lookup returns the articulation of a local course code.
func (t EquivalencyTable) Lookup(code string) (Equivalency, bool) {
	eq, ok := t.Courses[NormalizeCourseCode(code)]
	return eq, ok
}

// NormalizeCourseCode upper-cases a course code and collapses its whitespace,
// so "math  1a " and "MATH 1A" compare equal.
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}
