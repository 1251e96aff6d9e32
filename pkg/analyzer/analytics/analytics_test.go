package analytics

import (
	"context"
	"testing"

	"github.com/panbanda/cgpa/pkg/grading"
	"github.com/panbanda/cgpa/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course(g models.Grade, credits int, semester string) models.Course {
	return models.Course{CourseName: "c-" + string(g), Grade: g, CreditHours: credits, Semester: semester}
}

func TestAggregateEmpty(t *testing.T) {
	for _, input := range [][]models.Course{nil, {}} {
		got, err := Aggregate(input)
		require.NoError(t, err)

		assert.Equal(t, 0, got.TotalCourses)
		assert.Equal(t, 0, got.TotalCredits)
		assert.Equal(t, models.NotAvailable, got.CGPA)
		assert.Equal(t, models.NotAvailable, got.MostCommonGrade)
		assert.Equal(t, models.NotAvailable, got.HighestGrade)
		assert.Len(t, got.GradeCounts, len(models.AllGrades))
		assert.Empty(t, got.SemesterGPAs)
		assert.Empty(t, got.CrossTab)
		assert.Equal(t, models.TrendStats{}, got.Trend)
	}
}

func TestAggregateTotals(t *testing.T) {
	got, err := Aggregate([]models.Course{
		course(models.GradeBPlus, 3, ""),
		course(models.GradeC, 2, ""),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalCourses)
	assert.Equal(t, 5, got.TotalCredits)
	assert.Equal(t, "3.20", got.CGPA)
	assert.Equal(t, 1, got.Count(models.GradeBPlus))
	assert.Equal(t, 1, got.Count(models.GradeC))
	assert.Equal(t, 0, got.Count(models.GradeA))
}

func TestHighestGrade(t *testing.T) {
	got, err := Aggregate([]models.Course{
		course(models.GradeB, 3, ""),
		course(models.GradeAPlus, 1, ""),
		course(models.GradeC, 2, ""),
	})
	require.NoError(t, err)
	assert.Equal(t, "A+", got.HighestGrade)
}

func TestMostCommonGrade(t *testing.T) {
	tests := []struct {
		name   string
		grades []models.Grade
		want   string
	}{
		{"clear winner", []models.Grade{"A", "A", "B"}, "A"},
		{"tie goes to better grade", []models.Grade{"C", "B", "C", "B"}, "B"},
		{"tie insertion order irrelevant", []models.Grade{"F", "A+", "F", "A+"}, "A+"},
		{"single", []models.Grade{"D"}, "D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var courses []models.Course
			for _, g := range tt.grades {
				courses = append(courses, course(g, 3, ""))
			}
			got, err := Aggregate(courses)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.MostCommonGrade)
		})
	}
}

func TestRankingIgnoresHistogramOrder(t *testing.T) {
	counts := []models.GradeCount{
		{Grade: models.GradeF, Count: 2},
		{Grade: models.GradeC, Count: 0},
		{Grade: models.GradeBPlus, Count: 2},
		{Grade: models.GradeA, Count: 1},
	}
	assert.Equal(t, "B+", mostCommon(counts))
	assert.Equal(t, "A", highest(counts))

	none := []models.GradeCount{{Grade: models.GradeA, Count: 0}}
	assert.Equal(t, models.NotAvailable, mostCommon(none))
	assert.Equal(t, models.NotAvailable, highest(none))
}

func TestSemesterSeries(t *testing.T) {
	courses := []models.Course{
		course(models.GradeAPlus, 3, "Fall2023"),
		course(models.GradeF, 3, "Spring2024"),
		course(models.GradeB, 1, "Fall2023"),
		course(models.GradeC, 2, ""),
	}

	series, err := SemesterSeries(courses)
	require.NoError(t, err)
	require.Len(t, series, 2)

	// Lexicographic order, not calendar order.
	assert.Equal(t, "Fall2023", series[0].Semester)
	assert.Equal(t, "Spring2024", series[1].Semester)

	// (4.0*3 + 3.25*1) / 4 = 3.8125; the F in Spring2024 must not leak in.
	assert.InDelta(t, 3.81, series[0].GPA, 1e-9)
	assert.Equal(t, 4, series[0].Credits)
	assert.Equal(t, 2, series[0].Courses)
	assert.InDelta(t, 0.0, series[1].GPA, 1e-9)
}

func TestSemesterLabelsAreFreeText(t *testing.T) {
	series, err := SemesterSeries([]models.Course{
		course(models.GradeA, 3, "year one / term b"),
		course(models.GradeA, 3, "2023-A"),
	})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2023-A", series[0].Semester)
}

func TestCrossTabulate(t *testing.T) {
	courses := []models.Course{
		course(models.GradeA, 3, ""),
		course(models.GradeA, 3, ""),
		course(models.GradeA, 1, ""),
		course(models.GradeF, 1, ""),
		// Out-of-range weight is tolerated here; rejection happens upstream.
		course(models.GradeB, 4, ""),
	}

	rows := CrossTabulate(courses)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{rows[0].CreditHours, rows[1].CreditHours, rows[2].CreditHours})

	count := func(row models.CrossTabRow, g models.Grade) int {
		for _, gc := range row.Counts {
			if gc.Grade == g {
				return gc.Count
			}
		}
		return -1
	}

	assert.Equal(t, 1, count(rows[0], models.GradeA))
	assert.Equal(t, 1, count(rows[0], models.GradeF))
	assert.Equal(t, 2, count(rows[1], models.GradeA))
	assert.Equal(t, 0, count(rows[1], models.GradeF))
	assert.Equal(t, 1, count(rows[2], models.GradeB))

	for _, row := range rows {
		require.Len(t, row.Counts, len(models.AllGrades))
		assert.Equal(t, models.GradeAPlus, row.Counts[0].Grade)
	}
}

func TestTrendStats(t *testing.T) {
	assert.Equal(t, models.TrendStats{}, ComputeTrendStats(nil))
	assert.Equal(t, models.TrendStats{}, ComputeTrendStats([]models.SemesterGPA{{GPA: 3}}))

	rising := ComputeTrendStats([]models.SemesterGPA{{GPA: 2.0}, {GPA: 2.5}, {GPA: 3.0}})
	assert.InDelta(t, 0.5, rising.Slope, 1e-9)
	assert.InDelta(t, 2.0, rising.Intercept, 1e-9)
	assert.InDelta(t, 1.0, rising.RSquared, 1e-9)
	assert.InDelta(t, 1.0, rising.Correlation, 1e-9)

	flat := ComputeTrendStats([]models.SemesterGPA{{GPA: 3.0}, {GPA: 3.0}})
	assert.InDelta(t, 0.0, flat.Slope, 1e-9)
	assert.Equal(t, 0.0, flat.Correlation)
}

func TestPointStats(t *testing.T) {
	stats, err := ComputePointStats([]models.Course{
		course(models.GradeAPlus, 1, ""),
		course(models.GradeF, 1, ""),
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, stats.Mean, 1e-9)
	assert.Greater(t, stats.StdDev, 0.0)

	single, err := ComputePointStats([]models.Course{course(models.GradeB, 1, "")})
	require.NoError(t, err)
	assert.InDelta(t, 3.25, single.Mean, 1e-9)
	assert.Equal(t, 0.0, single.StdDev)
}

func TestAggregateUnknownGrade(t *testing.T) {
	_, err := Aggregate([]models.Course{course("Q", 3, "")})
	assert.ErrorIs(t, err, grading.ErrUnknownGrade)
}

func TestAnalyzer(t *testing.T) {
	got, err := New().Analyze(context.Background(), []models.Course{course(models.GradeA, 3, "S1")})
	require.NoError(t, err)
	assert.Equal(t, "3.75", got.CGPA)
	require.Len(t, got.SemesterGPAs, 1)
}
