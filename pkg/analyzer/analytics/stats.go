package analytics

import (
	"math"

	"github.com/panbanda/cgpa/pkg/grading"
	"github.com/panbanda/cgpa/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// ComputeTrendStats fits a line through the semester GPAs in series order.
// Returns zero values if fewer than 2 semesters are present.
func ComputeTrendStats(series []models.SemesterGPA) models.TrendStats {
	n := len(series)
	if n < 2 {
		return models.TrendStats{}
	}

	xs := make([]float64, n) // semester index (0, 1, 2, ...)
	ys := make([]float64, n) // GPAs

	for i, s := range series {
		xs[i] = float64(i)
		ys[i] = s.GPA
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	rSquared := stat.RSquared(xs, ys, nil, intercept, slope)
	correlation := stat.Correlation(xs, ys, nil)

	return models.TrendStats{
		Slope:       finite(slope),
		Intercept:   finite(intercept),
		RSquared:    finite(rSquared),
		Correlation: finite(correlation),
	}
}

// ComputePointStats returns the credit-weighted mean and standard deviation
// of grade points.
func ComputePointStats(courses []models.Course) (models.PointStats, error) {
	if len(courses) == 0 {
		return models.PointStats{}, nil
	}

	points := make([]float64, len(courses))
	weights := make([]float64, len(courses))
	for i, c := range courses {
		p, err := grading.Point(c.Grade)
		if err != nil {
			return models.PointStats{}, err
		}
		points[i] = p
		weights[i] = float64(c.CreditHours)
	}

	mean, std := stat.MeanStdDev(points, weights)
	return models.PointStats{Mean: finite(mean), StdDev: finite(std)}, nil
}

// finite maps NaN and ±Inf (constant series, single sample) to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
