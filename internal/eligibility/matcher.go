package eligibility

import "github.com/stemsi/transfer-backend/internal/model"

// CodeSet is a set of normalized course codes.
type CodeSet map[string]struct{}

// NewCodeSet collects the normalized codes of every course in a transcript.
func NewCodeSet(transcript model.Transcript) CodeSet {
	set := make(CodeSet, len(transcript))
	for _, c := range transcript {
		set[model.NormalizeCourseCode(c.CourseCode)] = struct{}{}
	}
	return set
}

// Contains reports whether code, after normalization, is in the set.
func (s CodeSet) Contains(code string) bool {
	_, ok := s[model.NormalizeCourseCode(code)]
	return ok
}

// MatchRequirement returns the first acceptable code, in declaration order,
// that appears among the completed codes. Matching is exact after
// normalization; there is no partial or fuzzy matching.
func MatchRequirement(completed CodeSet, req model.MajorRequirement) (string, bool) {
	for _, code := range req.EquivalentCodes {
		if completed.Contains(code) {
			return code, true
		}
	}
	return "", false
}

// CheckRequirements evaluates every major requirement of a profile in order.
func CheckRequirements(completed CodeSet, reqs []model.MajorRequirement) model.MajorRequirements {
	out := model.MajorRequirements{
		Completed: []model.RequirementStatus{},
		Missing:   []model.RequirementStatus{},
	}
	for _, req := range reqs {
		matched, ok := MatchRequirement(completed, req)
		status := model.RequirementStatus{
			Requirement:       req.Name,
			Completed:         ok,
			MatchedCourse:     matched,
			AcceptableCourses: append([]string{}, req.EquivalentCodes...),
		}
		if ok {
			out.Completed = append(out.Completed, status)
		} else {
			out.Missing = append(out.Missing, status)
		}
	}
	return out
}
