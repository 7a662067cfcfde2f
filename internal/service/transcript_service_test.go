package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReplace_NormalizesAndEnqueues(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.edu")

	got, err := h.transcriptSvc.Replace(ctx, "ana@example.edu", []model.CompletedCourse{
		{CourseCode: "  math   1a ", Units: 5, Grade: " a- ", Term: " Fall 2024 "},
	})
	require.NoError(t, err)
	assert.Equal(t, "math 1a", got[0].CourseCode)
	assert.Equal(t, model.GradeAMinus, got[0].Grade)
	assert.Equal(t, "Fall 2024", got[0].Term)
	assert.Empty(t, h.queue.Reasons(), "no target, nothing to re-evaluate")

	_, err = h.studentSvc.SelectTarget(ctx, "ana@example.edu", model.SelectTargetRequest{TargetUniversity: "ucsc"})
	require.NoError(t, err)
	_, err = h.transcriptSvc.Replace(ctx, "ana@example.edu", csTranscript())
	require.NoError(t, err)
	assert.Equal(t, []string{"target_selected", "transcript_updated"}, h.queue.Reasons())

	stored, err := h.transcriptSvc.Get(ctx, "ana@example.edu")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestParseTranscriptWorkbook(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Term", "Course Code", "Course Name", "Units", "Grade"},
		[]interface{}{"Fall 2024", "MATH 1A", "Calculus", 5, "a"},
		[]interface{}{},
		[]interface{}{"Winter 2025", "CIS 22A", "Programming in Java", 4.5, "B+"},
	)

	transcript, err := ParseTranscriptWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, model.CompletedCourse{CourseCode: "MATH 1A", CourseName: "Calculus", Units: 5, Grade: model.GradeA, Term: "Fall 2024"}, transcript[0])
	assert.Equal(t, 4.5, transcript[1].Units)
	assert.Equal(t, model.GradeBPlus, transcript[1].Grade)
}

func TestParseTranscriptWorkbook_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T) *bytes.Buffer
		wantRow int
	}{
		{"not a workbook", func(t *testing.T) *bytes.Buffer { return bytes.NewBufferString("course_code,units\n") }, 0},
		{"missing grade column", func(t *testing.T) *bytes.Buffer {
			return workbook(t, []interface{}{"course_code", "units"}, []interface{}{"MATH 1A", 5})
		}, 1},
		{"non-numeric units", func(t *testing.T) *bytes.Buffer {
			return workbook(t, []interface{}{"code", "credits", "grade"}, []interface{}{"MATH 1A", "five", "A"})
		}, 2},
		{"header only", func(t *testing.T) *bytes.Buffer {
			return workbook(t, []interface{}{"code", "credits", "grade"})
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTranscriptWorkbook(tt.input(t))
			var ie *ImportError
			require.True(t, errors.As(err, &ie), "got %v", err)
			assert.Equal(t, tt.wantRow, ie.Row)
		})
	}
}

func TestImport_ValidatesRows(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.edu")

	bad := workbook(t,
		[]interface{}{"course_code", "units", "grade"},
		[]interface{}{"MATH 1A", 5, "Q"},
	)
	_, err := h.transcriptSvc.Import(ctx, "ana@example.edu", bad)
	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, ie.Fields, "courses[0].grade")

	good := workbook(t,
		[]interface{}{"course_code", "units", "grade"},
		[]interface{}{"MATH 1A", 5, "A"},
	)
	got, err := h.transcriptSvc.Import(ctx, "ana@example.edu", good)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
