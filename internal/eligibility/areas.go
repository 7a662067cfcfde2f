package eligibility

import "github.com/stemsi/transfer-backend/internal/model"

// CheckAreas reports, for each area of the profile, how many distinct
// transcript courses articulate into it. Courses missing from the equivalency
// table contribute nothing.
//
// An area with courses_needed N is completed only once N distinct courses
// carry its tag; areas without a count need one.
func CheckAreas(transcript model.Transcript, table model.EquivalencyTable, areas []model.AreaRequirement) []model.AreaStatus {
	contributors := make(map[string]map[string]struct{})
	for _, c := range transcript {
		eq, ok := table.Lookup(c.CourseCode)
		if !ok {
			continue
		}
		code := model.NormalizeCourseCode(c.CourseCode)
		for _, tag := range eq.Areas {
			if contributors[tag] == nil {
				contributors[tag] = make(map[string]struct{})
			}
			contributors[tag][code] = struct{}{}
		}
	}

	out := make([]model.AreaStatus, 0, len(areas))
	for _, area := range areas {
		needed := area.CoursesNeeded
		if needed < 1 {
			needed = 1
		}
		count := len(contributors[area.Tag])
		out = append(out, model.AreaStatus{
			Tag:              area.Tag,
			Name:             area.Name,
			Required:         area.Required,
			Completed:        count >= needed,
			CoursesCompleted: count,
			CoursesNeeded:    needed,
		})
	}
	return out
}

// MissingRequiredAreas lists the tags of required, uncompleted areas in
// profile order.
func MissingRequiredAreas(statuses []model.AreaStatus) []string {
	var missing []string
	for _, s := range statuses {
		if s.Required && !s.Completed {
			missing = append(missing, s.Tag)
		}
	}
	return missing
}
