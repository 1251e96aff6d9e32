// Package cgpa computes credit-weighted grade point averages.
package cgpa

import (
	"context"
	"math"
	"strconv"

	"github.com/panbanda/cgpa/pkg/grading"
	"github.com/panbanda/cgpa/pkg/models"
)

// Analyzer computes current and combined CGPA for a course list.
type Analyzer struct {
	baseline models.Baseline
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithBaseline folds prior history into the combined figures.
func WithBaseline(b models.Baseline) Option {
	return func(a *Analyzer) {
		a.baseline = b
	}
}

// New creates a new CGPA analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes every figure the summary view shows.
func (a *Analyzer) Analyze(ctx context.Context, courses []models.Course) (models.CGPAResult, error) {
	if err := ctx.Err(); err != nil {
		return models.CGPAResult{}, err
	}
	return Compute(courses, a.baseline)
}

// Compute returns the current (courses only) and combined (courses plus
// baseline) CGPA along with the credit totals.
func Compute(courses []models.Course, baseline models.Baseline) (models.CGPAResult, error) {
	weighted, credits, err := Accumulate(courses)
	if err != nil {
		return models.CGPAResult{}, err
	}

	combinedWeighted := weighted + baseline.PreviousCGPA*float64(baseline.PreviousCredits)
	combinedCredits := credits + baseline.PreviousCredits

	return models.CGPAResult{
		CurrentCGPA:    FormatDecimal(average(weighted, credits)),
		CombinedCGPA:   FormatDecimal(average(combinedWeighted, combinedCredits)),
		CourseCredits:  credits,
		TotalCredits:   FormatDecimal(float64(combinedCredits)),
		WeightedPoints: combinedWeighted,
		Courses:        len(courses),
	}, nil
}

// ComputeCGPA returns the combined CGPA with two fraction digits.
// Zero total credits yields "0.00".
func ComputeCGPA(courses []models.Course, previousCGPA float64, previousCredits int) (string, error) {
	res, err := Compute(courses, models.Baseline{PreviousCGPA: previousCGPA, PreviousCredits: previousCredits})
	if err != nil {
		return "", err
	}
	return res.CombinedCGPA, nil
}

// ComputeTotalCredits returns course credits plus previousCredits with two
// fraction digits. The empty case is "0.00", never a bare number.
func ComputeTotalCredits(courses []models.Course, previousCredits int) string {
	total := previousCredits
	for _, c := range courses {
		total += c.CreditHours
	}
	return FormatDecimal(float64(total))
}

// Accumulate sums point × creditHours and creditHours over courses.
func Accumulate(courses []models.Course) (weighted float64, credits int, err error) {
	for _, c := range courses {
		p, err := grading.Point(c.Grade)
		if err != nil {
			return 0, 0, err
		}
		weighted += p * float64(c.CreditHours)
		credits += c.CreditHours
	}
	return weighted, credits, nil
}

// Average divides weighted points by credits, rounded to two places.
// Zero credits yields 0.
func Average(weighted float64, credits int) float64 {
	return average(weighted, credits)
}

func average(weighted float64, credits int) float64 {
	if credits == 0 {
		return 0
	}
	return Round2(weighted / float64(credits))
}

// Round2 rounds half away from zero to two decimal places. The small bias
// absorbs binary representation error (e.g. 3.145 stored as 3.14499...).
func Round2(v float64) float64 {
	if v < 0 {
		return -Round2(-v)
	}
	return math.Round(v*100+1e-9) / 100
}

// FormatDecimal renders v with exactly two fraction digits.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}
