package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/cgpa/pkg/models"
)

func sampleCourses() []models.Course {
	return []models.Course{
		{CourseName: "Calculus", Grade: models.GradeBPlus, CreditHours: 3, Semester: "2023-1"},
		{CourseName: "History <Modern>", Grade: models.GradeC, CreditHours: 2, Semester: "2023-1"},
		{CourseName: "Physics", Grade: models.GradeAPlus, CreditHours: 3, Semester: "2023-2"},
	}
}

func TestBuild(t *testing.T) {
	data, err := Build(context.Background(), sampleCourses(), models.Baseline{}, Metadata{Theme: models.ThemeDark})
	require.NoError(t, err)

	assert.Equal(t, "CGPA Report", data.Metadata.Title)
	assert.False(t, data.Metadata.GeneratedAt.IsZero())
	assert.Equal(t, "3.50", data.Summary.CurrentCGPA)
	assert.Equal(t, 3, data.Analytics.TotalCourses)
	require.Len(t, data.Histogram, len(models.AllGrades))
	assert.InDelta(t, 33.33, data.Histogram[0].Percent, 0.01)
	require.Len(t, data.Insights, 3)
	assert.Equal(t, "Trend", data.Insights[2].Label)
	assert.Contains(t, data.Insights[2].Text, "rising")
}

func TestBuildEmpty(t *testing.T) {
	data, err := Build(context.Background(), nil, models.Baseline{}, Metadata{})
	require.NoError(t, err)

	assert.Equal(t, "0.00", data.Summary.CombinedCGPA)
	assert.Equal(t, models.NotAvailable, data.Analytics.CGPA)
	require.Len(t, data.Insights, 1)
	for _, bar := range data.Histogram {
		assert.Zero(t, bar.Percent)
	}
}

func TestBuildRejectsUnknownGrade(t *testing.T) {
	_, err := Build(context.Background(), []models.Course{{CourseName: "X", Grade: "Z", CreditHours: 1}}, models.Baseline{}, Metadata{})
	assert.Error(t, err)
}

func TestTrendText(t *testing.T) {
	assert.Contains(t, trendText(models.TrendStats{Slope: 0.004}), "steady")
	assert.Contains(t, trendText(models.TrendStats{Slope: 0.25}), "rising by about 0.25")
	assert.Contains(t, trendText(models.TrendStats{Slope: -0.5}), "falling by about 0.50")
}

func TestGPAClass(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.75", "good"},
		{"3.50", "good"},
		{"3.00", "warning"},
		{"2.00", "danger"},
		{"N/A", "muted"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gpaClass(tt.in), tt.in)
	}
}

func TestRender(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data, err := Build(context.Background(), sampleCourses(), models.Baseline{PreviousCGPA: 3.0, PreviousCredits: 30}, Metadata{
		Title:       "Spring Review",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Theme:       models.ThemeDark,
		Version:     "1.2.3",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(data, &buf))
	html := buf.String()

	for _, want := range []string{
		"<title>Spring Review</title>",
		`data-theme="dark"`,
		"2024-05-01 12:00",
		"cgpa 1.2.3",
		data.Summary.CombinedCGPA,
		"previous CGPA of 3.00 over 30 credit hours",
		`id="semesters"`,
		`id="crosstab"`,
		"History &lt;Modern&gt;",
		`id="report-data"`,
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "History <Modern>")
}

func TestRenderEmpty(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data, err := Build(context.Background(), []models.Course{}, models.Baseline{}, Metadata{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(data, &buf))
	html := buf.String()

	assert.Contains(t, html, "No courses recorded yet.")
	assert.NotContains(t, html, `id="semesters"`)
	assert.NotContains(t, html, `id="crosstab"`)
	assert.False(t, strings.Contains(html, "previous CGPA"))
}

func TestRenderToFile(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	data, err := Build(context.Background(), sampleCourses(), models.Baseline{}, Metadata{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, r.RenderToFile(data, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<!DOCTYPE html>")
}
