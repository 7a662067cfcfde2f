package validator

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestStruct_TranscriptRows(t *testing.T) {
	tests := []struct {
		name      string
		course    model.CompletedCourse
		wantField string
	}{
		{"valid", model.CompletedCourse{CourseCode: "MATH 1A", Units: 5, Grade: "A-"}, ""},
		{"compact code", model.CompletedCourse{CourseCode: "cis22a", Units: 4.5, Grade: "b+"}, ""},
		{"pass marker", model.CompletedCourse{CourseCode: "COMSC 110", Units: 3, Grade: "P"}, ""},
		{"bad code", model.CompletedCourse{CourseCode: "intro to math", Units: 5, Grade: "A"}, "courses[0].course_code"},
		{"bad grade", model.CompletedCourse{CourseCode: "MATH 1A", Units: 5, Grade: "E"}, "courses[0].grade"},
		{"zero units", model.CompletedCourse{CourseCode: "MATH 1A", Units: 0, Grade: "A"}, "courses[0].units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Struct(&model.ReplaceTranscriptRequest{Courses: []model.CompletedCourse{tt.course}})
			if tt.wantField == "" {
				assert.Nil(t, fields)
				return
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestStruct_CustomMessages(t *testing.T) {
	fields := Struct(&model.ReplaceTranscriptRequest{Courses: []model.CompletedCourse{
		{CourseCode: "MATH 1A", Units: 5, Grade: "Z"},
	}})
	assert.Contains(t, fields["courses[0].grade"], "letter grade")
}

func TestStruct_EmptyTranscript(t *testing.T) {
	fields := Struct(&model.ReplaceTranscriptRequest{})
	assert.Contains(t, fields, "courses")
}

func TestMustRegister(t *testing.T) {
	assert.Panics(t, func() {
		mustRegister(govalidator.New(), "", validateGrade)
	})
	assert.NotPanics(t, func() {
		mustRegister(govalidator.New(), "grade", validateGrade)
	})
}
