package report

import (
	"time"

	"github.com/panbanda/cgpa/pkg/models"
)

// Metadata contains report generation metadata.
type Metadata struct {
	Title       string       `json:"title"`
	GeneratedAt time.Time    `json:"generated_at"`
	Theme       models.Theme `json:"theme"`
	Version     string       `json:"version"`
}

// Insight is one sentence of plain-language commentary.
type Insight struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// HistogramBar is one grade column of the distribution chart.
type HistogramBar struct {
	Grade   models.Grade `json:"grade"`
	Count   int          `json:"count"`
	Percent float64      `json:"percent"`
}

// RenderData contains all data needed to render the report.
type RenderData struct {
	Metadata  Metadata
	Summary   models.CGPAResult
	Baseline  models.Baseline
	Analytics *models.Analytics
	Courses   []models.Course
	Histogram []HistogramBar
	Insights  []Insight
}
