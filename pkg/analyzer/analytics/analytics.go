// Package analytics aggregates summary statistics over a course list.
package analytics

import (
	"context"
	"sort"

	"github.com/panbanda/cgpa/pkg/analyzer/cgpa"
	"github.com/panbanda/cgpa/pkg/grading"
	"github.com/panbanda/cgpa/pkg/models"
)

// Analyzer builds the analytics summary for a course list.
type Analyzer struct{}

// New creates a new analytics analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze implements analyzer.CourseAnalyzer.
func (a *Analyzer) Analyze(ctx context.Context, courses []models.Course) (*models.Analytics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Aggregate(courses)
}

// Aggregate computes totals, the histogram, the cross-tabulation and the
// per-semester series. An empty list yields an all-"N/A" summary.
func Aggregate(courses []models.Course) (*models.Analytics, error) {
	weighted, credits, err := cgpa.Accumulate(courses)
	if err != nil {
		return nil, err
	}

	result := &models.Analytics{
		TotalCourses:    len(courses),
		TotalCredits:    credits,
		CGPA:            models.NotAvailable,
		MostCommonGrade: models.NotAvailable,
		HighestGrade:    models.NotAvailable,
		GradeCounts:     gradeCounts(courses),
		SemesterGPAs:    []models.SemesterGPA{},
		CrossTab:        []models.CrossTabRow{},
	}

	if len(courses) == 0 {
		return result, nil
	}
	if credits > 0 {
		result.CGPA = cgpa.FormatDecimal(cgpa.Average(weighted, credits))
	}

	result.MostCommonGrade = mostCommon(result.GradeCounts)
	result.HighestGrade = highest(result.GradeCounts)
	result.CrossTab = CrossTabulate(courses)

	semesters, err := SemesterSeries(courses)
	if err != nil {
		return nil, err
	}
	result.SemesterGPAs = semesters
	result.Trend = ComputeTrendStats(semesters)

	stats, err := ComputePointStats(courses)
	if err != nil {
		return nil, err
	}
	result.PointStats = stats

	return result, nil
}

// gradeCounts returns a histogram over every grade in rank order.
func gradeCounts(courses []models.Course) []models.GradeCount {
	counts := make(map[models.Grade]int, len(models.AllGrades))
	for _, c := range courses {
		counts[c.Grade]++
	}
	out := make([]models.GradeCount, len(models.AllGrades))
	for i, g := range models.AllGrades {
		out[i] = models.GradeCount{Grade: g, Count: counts[g]}
	}
	return out
}

// mostCommon picks the highest count. Ties go to the better grade.
func mostCommon(counts []models.GradeCount) string {
	var best models.GradeCount
	for _, gc := range counts {
		if gc.Count == 0 {
			continue
		}
		if best.Count == 0 || gc.Count > best.Count || (gc.Count == best.Count && grading.Better(gc.Grade, best.Grade)) {
			best = gc
		}
	}
	if best.Count == 0 {
		return models.NotAvailable
	}
	return string(best.Grade)
}

func highest(counts []models.GradeCount) string {
	var best models.Grade
	for _, gc := range counts {
		if gc.Count > 0 && (best == "" || grading.Better(gc.Grade, best)) {
			best = gc.Grade
		}
	}
	if best == "" {
		return models.NotAvailable
	}
	return string(best)
}

// SemesterSeries returns one weighted GPA per distinct semester label,
// sorted lexicographically. Courses without a label are left out.
func SemesterSeries(courses []models.Course) ([]models.SemesterGPA, error) {
	buckets := make(map[string][]models.Course)
	for _, c := range courses {
		if c.Semester == "" {
			continue
		}
		buckets[c.Semester] = append(buckets[c.Semester], c)
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := make([]models.SemesterGPA, 0, len(labels))
	for _, label := range labels {
		bucket := buckets[label]
		weighted, credits, err := cgpa.Accumulate(bucket)
		if err != nil {
			return nil, err
		}
		series = append(series, models.SemesterGPA{
			Semester: label,
			GPA:      cgpa.Average(weighted, credits),
			Credits:  credits,
			Courses:  len(bucket),
		})
	}
	return series, nil
}
