// Package grading holds the fixed letter-grade to grade-point scale.
package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/panbanda/cgpa/pkg/models"
)

// ErrUnknownGrade is returned for grades that are not on the scale.
var ErrUnknownGrade = errors.New("unknown grade")

var points = map[models.Grade]float64{
	models.GradeAPlus: 4.00,
	models.GradeA:     3.75,
	models.GradeBPlus: 3.50,
	models.GradeB:     3.25,
	models.GradeCPlus: 3.00,
	models.GradeC:     2.75,
	models.GradeDPlus: 2.50,
	models.GradeD:     2.25,
	models.GradeF:     0.00,
}

// percents are the numerical score ranges behind each letter.
var percents = map[models.Grade]string{
	models.GradeAPlus: "90 - 100",
	models.GradeA:     "85 - < 90",
	models.GradeBPlus: "80 - < 85",
	models.GradeB:     "75 - < 80",
	models.GradeCPlus: "70 - < 75",
	models.GradeC:     "65 - < 70",
	models.GradeDPlus: "60 - < 65",
	models.GradeD:     "50 - < 60",
	models.GradeF:     "< 50",
}

// ScaleEntry is one row of the grading reference table.
type ScaleEntry struct {
	Grade   models.Grade `json:"grade" toon:"grade"`
	Percent string       `json:"percent" toon:"percent"`
	Point   float64      `json:"point" toon:"point"`
	Band    string       `json:"band" toon:"band"`
}

// Mark is a transcript notation with no grade point. Marks never count
// toward the CGPA and cannot be entered as a course grade.
type Mark struct {
	Code    string `json:"code" toon:"code"`
	Meaning string `json:"meaning" toon:"meaning"`
}

// Marks lists the non-graded notations shown alongside the scale.
func Marks() []Mark {
	return []Mark{
		{Code: "I", Meaning: "Incomplete"},
		{Code: "W", Meaning: "Withdrawal"},
		{Code: "UW", Meaning: "Unofficial Withdrawal"},
	}
}

// Point returns the grade point for g.
func Point(g models.Grade) (float64, error) {
	p, ok := points[g]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGrade, string(g))
	}
	return p, nil
}

// Parse normalizes s (trim, upper-case) and checks it against the scale.
func Parse(s string) (models.Grade, error) {
	g := models.Grade(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := points[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGrade, s)
	}
	return g, nil
}

// Rank returns the position of g in best-first order (A+ is 0).
// Unknown grades rank after F.
func Rank(g models.Grade) int {
	for i, known := range models.AllGrades {
		if known == g {
			return i
		}
	}
	return len(models.AllGrades)
}

// Better reports whether a ranks above b.
func Better(a, b models.Grade) bool {
	return Rank(a) < Rank(b)
}

// Scale returns the reference table in best-first order.
func Scale() []ScaleEntry {
	entries := make([]ScaleEntry, len(models.AllGrades))
	for i, g := range models.AllGrades {
		entries[i] = ScaleEntry{Grade: g, Percent: percents[g], Point: points[g], Band: Band(g)}
	}
	return entries
}

// Band names the performance group a grade belongs to.
func Band(g models.Grade) string {
	switch g {
	case models.GradeAPlus, models.GradeA:
		return "excellent"
	case models.GradeBPlus, models.GradeB:
		return "good"
	case models.GradeCPlus, models.GradeC:
		return "satisfactory"
	case models.GradeDPlus, models.GradeD:
		return "pass"
	default:
		return "fail"
	}
}
