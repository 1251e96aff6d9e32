// Package report renders the analytics dashboard as a standalone HTML page.
package report

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/panbanda/cgpa/pkg/analyzer"
	"github.com/panbanda/cgpa/pkg/analyzer/analytics"
	"github.com/panbanda/cgpa/pkg/analyzer/cgpa"
	"github.com/panbanda/cgpa/pkg/grading"
	"github.com/panbanda/cgpa/pkg/models"
)

//go:embed template.html
var templateFS embed.FS

// Renderer renders HTML reports.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a new report renderer.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"gpaClass": gpaClass,
		"gradeClass": func(g models.Grade) string {
			return grading.Band(g)
		},
		"inc": func(i int) int {
			return i + 1
		},
		"lower": strings.ToLower,
		"title": cases.Title(language.English).String,
		"json": func(v any) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
		"num": func(n any) string {
			p := message.NewPrinter(language.English)
			switch v := n.(type) {
			case int:
				return p.Sprintf("%d", v)
			case float64:
				return p.Sprintf("%.2f", v)
			default:
				return fmt.Sprint(n)
			}
		},
		"date": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	}

	tmplContent, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, err
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the report for data to w.
func (r *Renderer) Render(data *RenderData, w io.Writer) error {
	return r.tmpl.Execute(w, data)
}

// RenderToFile generates HTML and writes it to a file.
func (r *Renderer) RenderToFile(data *RenderData, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return r.Render(data, f)
}

// Build computes the summary and analytics concurrently and assembles
// everything the template needs.
func Build(ctx context.Context, courses []models.Course, baseline models.Baseline, meta Metadata) (*RenderData, error) {
	var (
		summary    models.CGPAResult
		stats      *models.Analytics
		sumErr     error
		analyzeErr error

		summarizer analyzer.CourseAnalyzer[models.CGPAResult] = cgpa.New(cgpa.WithBaseline(baseline))
		aggregator analyzer.CourseAnalyzer[*models.Analytics] = analytics.New()
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		summary, sumErr = summarizer.Analyze(ctx, courses)
	})
	wg.Go(func() {
		stats, analyzeErr = aggregator.Analyze(ctx, courses)
	})
	wg.Wait()

	if sumErr != nil {
		return nil, sumErr
	}
	if analyzeErr != nil {
		return nil, analyzeErr
	}

	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}
	if meta.Title == "" {
		meta.Title = "CGPA Report"
	}

	return &RenderData{
		Metadata:  meta,
		Summary:   summary,
		Baseline:  baseline,
		Analytics: stats,
		Courses:   courses,
		Histogram: histogram(stats),
		Insights:  insights(summary, stats),
	}, nil
}

func histogram(a *models.Analytics) []HistogramBar {
	bars := make([]HistogramBar, 0, len(a.GradeCounts))
	for _, gc := range a.GradeCounts {
		bar := HistogramBar{Grade: gc.Grade, Count: gc.Count}
		if a.TotalCourses > 0 {
			bar.Percent = float64(gc.Count) / float64(a.TotalCourses) * 100
		}
		bars = append(bars, bar)
	}
	return bars
}

func insights(sum models.CGPAResult, a *models.Analytics) []Insight {
	if a.TotalCourses == 0 {
		return []Insight{{Label: "Courses", Text: "No courses recorded yet."}}
	}

	out := []Insight{
		{Label: "Standing", Text: fmt.Sprintf("Combined CGPA is %s over %s credit hours.", sum.CombinedCGPA, sum.TotalCredits)},
		{Label: "Grades", Text: fmt.Sprintf("Most common grade is %s; best grade is %s.", a.MostCommonGrade, a.HighestGrade)},
	}
	if len(a.SemesterGPAs) >= 2 {
		out = append(out, Insight{Label: "Trend", Text: trendText(a.Trend)})
	}
	return out
}

// trendText describes the fitted per-semester slope.
func trendText(t models.TrendStats) string {
	switch {
	case math.Abs(t.Slope) < 0.01:
		return "GPA is steady across semesters."
	case t.Slope > 0:
		return fmt.Sprintf("GPA is rising by about %s points per semester.", strconv.FormatFloat(t.Slope, 'f', 2, 64))
	default:
		return fmt.Sprintf("GPA is falling by about %s points per semester.", strconv.FormatFloat(-t.Slope, 'f', 2, 64))
	}
}

func gpaClass(v string) string {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return "muted"
	}
	if f >= 3.5 {
		return "good"
	}
	if f >= 2.75 {
		return "warning"
	}
	return "danger"
}
