package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// MaxImportRows caps the number of course rows read from one workbook.
const MaxImportRows = 200

var headerAliases = map[string]string{
	"course_code": "course_code",
	"code":        "course_code",
	"course":      "course_code",
	"course_name": "course_name",
	"name":        "course_name",
	"title":       "course_name",
	"units":       "units",
	"credits":     "units",
	"grade":       "grade",
	"term":        "term",
	"semester":    "term",
}

// ParseTranscriptWorkbook reads the first sheet of an .xlsx transcript. The
// first row is a header naming the columns (course_code, course_name, units,
// grade, term); column order is free and blank rows are skipped.
func ParseTranscriptWorkbook(r io.Reader) (model.Transcript, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ImportError{Reason: "file is not a readable .xlsx workbook"}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ImportError{Reason: fmt.Sprintf("read sheet %q: %v", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &ImportError{Reason: "workbook is empty"}
	}

	columns := map[string]int{}
	for i, cell := range rows[0] {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cell), " ", "_"))
		if field, ok := headerAliases[key]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	for _, required := range []string{"course_code", "units", "grade"} {
		if _, ok := columns[required]; !ok {
			return nil, &ImportError{Row: 1, Reason: "missing column " + required}
		}
	}

	cell := func(row []string, field string) string {
		i, ok := columns[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	transcript := model.Transcript{}
	for n, row := range rows[1:] {
		rowNum := n + 2
		if isBlankRow(row) {
			continue
		}
		if len(transcript) == MaxImportRows {
			return nil, &ImportError{Row: rowNum, Reason: fmt.Sprintf("more than %d courses", MaxImportRows)}
		}

		rawUnits := cell(row, "units")
		units, err := strconv.ParseFloat(rawUnits, 64)
		if err != nil {
			return nil, &ImportError{
				Row:    rowNum,
				Reason: "units must be a number",
				Fields: map[string]string{"units": fmt.Sprintf("%q is not a number", rawUnits)},
			}
		}

		transcript = append(transcript, model.CompletedCourse{
			CourseCode: cell(row, "course_code"),
			CourseName: cell(row, "course_name"),
			Units:      units,
			Grade:      model.Grade(cell(row, "grade")).Normalize(),
			Term:       cell(row, "term"),
		})
	}

	if len(transcript) == 0 {
		return nil, &ImportError{Reason: "workbook has no course rows"}
	}
	return transcript, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
