package importer

import (
	"testing"

	"github.com/panbanda/cgpa/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	rows := [][]string{
		{"Course Name", "Grade", "Credit Hours"},
		{"Calculus", "a+", "3"},
		{"Physics", "B", "4"},
		{"", "", ""},
		{},
		{"Chemistry", "C+", "2.0"},
		{"Art", "", "1"},
		{"   ", "A", "1"},
		{"Music", "E", "1"},
		{"Drama", "B", "2.5"},
		{"Poetry", "B", "abc"},
		{"Latin", "B"},
	}

	got := Validate(rows)

	require.Len(t, got.Courses, 2)
	assert.Equal(t, models.Course{CourseName: "Calculus", Grade: models.GradeAPlus, CreditHours: 3}, got.Courses[0])
	assert.Equal(t, models.Course{CourseName: "Chemistry", Grade: models.GradeCPlus, CreditHours: 2}, got.Courses[1])
	assert.Equal(t, models.ImportOK, got.Outcome)

	var skippedRows []int
	for _, s := range got.Skipped {
		skippedRows = append(skippedRows, s.Row)
		assert.NotEmpty(t, s.Reason)
	}
	// Blank rows 4 and 5 are not reported.
	assert.Equal(t, []int{3, 7, 8, 9, 10, 11, 12}, skippedRows)
	assert.Equal(t, 7, got.SkippedCount())
}

func TestValidateRejectsFourCreditHours(t *testing.T) {
	got := Validate([][]string{
		Header,
		{"Physics", "B", "4"},
		{"  ", "", " "},
	})

	assert.Empty(t, got.Courses)
	require.Len(t, got.Skipped, 1)
	assert.Equal(t, 2, got.Skipped[0].Row)
	assert.Contains(t, got.Skipped[0].Reason, "creditHours")
	assert.Equal(t, models.ImportEmpty, got.Outcome)
}

func TestValidateHeaderOnly(t *testing.T) {
	for _, rows := range [][][]string{nil, {Header}} {
		got := Validate(rows)
		assert.Empty(t, got.Courses)
		assert.Empty(t, got.Skipped)
		assert.Equal(t, models.ImportEmpty, got.Outcome)
	}
}

func TestValidateIgnoresHeaderText(t *testing.T) {
	got := Validate([][]string{
		{"whatever", "names", "here"},
		{"Biology", "D", "1"},
	})
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "Biology", got.Courses[0].CourseName)
}

func TestValidateSemesterColumn(t *testing.T) {
	got := Validate([][]string{
		{"Course Name", "Grade", "Credit Hours", "Semester"},
		{"Biology", "D", "1", "Fall2023"},
		{"Botany", "A", "3", ""},
	})
	require.Len(t, got.Courses, 2)
	assert.Equal(t, "Fall2023", got.Courses[0].Semester)
	assert.Equal(t, "", got.Courses[1].Semester)
}

func TestRowsRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		courses []models.Course
		header  []string
	}{
		{
			name: "without semesters",
			courses: []models.Course{
				{CourseName: "Calculus", Grade: models.GradeAPlus, CreditHours: 3},
				{CourseName: "Calculus", Grade: models.GradeF, CreditHours: 1},
			},
			header: Header,
		},
		{
			name: "with semesters",
			courses: []models.Course{
				{CourseName: "Calculus", Grade: models.GradeB, CreditHours: 2, Semester: "Fall2023"},
				{CourseName: "Physics", Grade: models.GradeD, CreditHours: 3},
			},
			header: append(append([]string(nil), Header...), SemesterColumn),
		},
		{
			name:    "empty",
			courses: []models.Course{},
			header:  Header,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Rows(tt.courses)
			assert.Equal(t, tt.header, rows[0])

			got := Validate(rows)
			assert.Empty(t, got.Skipped)
			assert.Equal(t, tt.courses, got.Courses)
		})
	}
}
