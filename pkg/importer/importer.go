// Package importer turns raw spreadsheet rows into validated courses.
package importer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/panbanda/cgpa/pkg/models"
)

// Header is the fixed column layout of the tabular format.
var Header = []string{"Course Name", "Grade", "Credit Hours"}

// SemesterColumn is appended to Header when any course carries a semester.
const SemesterColumn = "Semester"

// Column positions. Import is positional; header text is never matched.
const (
	colName = iota
	colGrade
	colCredits
	colSemester
)

// Validate checks every data row (the first row is the header) and returns
// the accepted courses plus a diagnostic per rejected row. Blank rows are
// skipped without a diagnostic.
func Validate(rows [][]string) *models.ImportResult {
	result := &models.ImportResult{
		Courses: []models.Course{},
		Skipped: []models.RowError{},
	}

	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue
		}
		course, err := ParseRow(row)
		if err != nil {
			result.Skipped = append(result.Skipped, models.RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		result.Courses = append(result.Courses, course)
	}

	result.Outcome = models.ImportOK
	if len(result.Courses) == 0 {
		result.Outcome = models.ImportEmpty
	}
	return result
}

// ParseRow converts one data row into a course.
func ParseRow(row []string) (models.Course, error) {
	credits, err := parseCredits(cell(row, colCredits))
	if err != nil {
		return models.Course{}, err
	}

	course, err := models.ValidateCourse(models.Course{
		CourseName:  cell(row, colName),
		Grade:       models.Grade(cell(row, colGrade)),
		CreditHours: credits,
		Semester:    cell(row, colSemester),
	})
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// Rows renders courses in the tabular format, header first. The semester
// column is only written when at least one course has a semester.
func Rows(courses []models.Course) [][]string {
	withSemester := false
	for _, c := range courses {
		if c.Semester != "" {
			withSemester = true
			break
		}
	}

	header := append([]string(nil), Header...)
	if withSemester {
		header = append(header, SemesterColumn)
	}

	rows := make([][]string, 0, len(courses)+1)
	rows = append(rows, header)
	for _, c := range courses {
		row := []string{c.CourseName, string(c.Grade), strconv.Itoa(c.CreditHours)}
		if withSemester {
			row = append(row, c.Semester)
		}
		rows = append(rows, row)
	}
	return rows
}

var errCreditsMissing = errors.New("creditHours is required")

// parseCredits accepts any numeric text whose value is exactly 1, 2 or 3,
// so "3" and "3.0" are equivalent.
func parseCredits(s string) (int, error) {
	if s == "" {
		return 0, errCreditsMissing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.Trunc(v) != v {
		return 0, fmt.Errorf("creditHours must be one of 1, 2, 3 (got %q)", s)
	}
	// Out-of-range integers are reported by course validation.
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("creditHours must be one of 1, 2, 3 (got %q)", s)
	}
	return int(v), nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
