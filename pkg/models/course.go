package models

import "strings"

// Grade is a letter grade from the fixed grading scale.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeDPlus Grade = "D+"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// AllGrades lists every grade from best to worst.
var AllGrades = []Grade{
	GradeAPlus,
	GradeA,
	GradeBPlus,
	GradeB,
	GradeCPlus,
	GradeC,
	GradeDPlus,
	GradeD,
	GradeF,
}

// NotAvailable is reported for aggregates that have no data.
const NotAvailable = "N/A"

// ValidCreditHours are the only accepted course weights.
var ValidCreditHours = []int{1, 2, 3}

// Valid reports whether g is on the grading scale.
func (g Grade) Valid() bool {
	for _, known := range AllGrades {
		if g == known {
			return true
		}
	}
	return false
}

// Course is a single graded course.
type Course struct {
	CourseName  string `json:"courseName" toon:"courseName" validate:"required"`
	Grade       Grade  `json:"grade" toon:"grade" validate:"required,grade"`
	CreditHours int    `json:"creditHours" toon:"creditHours" validate:"oneof=1 2 3"`
	Semester    string `json:"semester,omitempty" toon:"semester,omitempty"`
}

// Normalize trims text fields and upper-cases the grade.
func (c Course) Normalize() Course {
	c.CourseName = strings.TrimSpace(c.CourseName)
	c.Grade = Grade(strings.ToUpper(strings.TrimSpace(string(c.Grade))))
	c.Semester = strings.TrimSpace(c.Semester)
	return c
}

// Baseline is prior academic history that is not broken into courses.
type Baseline struct {
	PreviousCGPA    float64 `json:"previousCgpa" toon:"previousCgpa" validate:"gte=0,lte=4"`
	PreviousCredits int     `json:"previousCredits" toon:"previousCredits" validate:"gte=0"`
}

// IsZero reports whether the baseline carries no history.
func (b Baseline) IsZero() bool {
	return b.PreviousCGPA == 0 && b.PreviousCredits == 0
}

// Theme is the persisted display preference. It never affects computation.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme converts a string to a Theme, defaulting to dark.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeLight)) {
		return ThemeLight
	}
	return ThemeDark
}
