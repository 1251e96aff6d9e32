package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/panbanda/cgpa/internal/output"
	"github.com/panbanda/cgpa/pkg/analyzer/cgpa"
	"github.com/panbanda/cgpa/pkg/grading"
	"github.com/panbanda/cgpa/pkg/models"
)

// gradeCell labels a grade, colored by band when colored is set.
func gradeCell(g models.Grade, text string, colored bool) string {
	if !colored {
		return text
	}
	return output.GradeColor(g, text)
}

func coursesTable(courses []models.Course, colored bool) *output.Table {
	rows := make([][]string, len(courses))
	for i, c := range courses {
		rows[i] = []string{strconv.Itoa(i + 1), c.CourseName, gradeCell(c.Grade, string(c.Grade), colored), strconv.Itoa(c.CreditHours), c.Semester}
	}

	var footer []string
	if len(courses) == 0 {
		footer = []string{"", "No courses yet. Add one with: cgpa add <name> <grade> <credits>", "", "", ""}
	}
	return output.NewTable("Courses", []string{"#", "Course", "Grade", "Credits", "Semester"}, rows, footer, courses)
}

// summaryView is the machine-readable form of the summary.
type summaryView struct {
	Summary  models.CGPAResult `json:"summary" toon:"summary"`
	Baseline models.Baseline   `json:"baseline" toon:"baseline"`
}

func summarySection(sum models.CGPAResult, b models.Baseline) *output.Section {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current CGPA:   %s\n", sum.CurrentCGPA)
	fmt.Fprintf(&sb, "Combined CGPA:  %s\n", sum.CombinedCGPA)
	fmt.Fprintf(&sb, "Total credits:  %s\n", sum.TotalCredits)
	fmt.Fprintf(&sb, "Courses:        %d", sum.Courses)
	if !b.IsZero() {
		fmt.Fprintf(&sb, "\nBaseline:       %s over %d credit hours", cgpa.FormatDecimal(b.PreviousCGPA), b.PreviousCredits)
	}

	return &output.Section{
		Title:   "CGPA Summary",
		Content: sb.String(),
		Data:    summaryView{Summary: sum, Baseline: b},
	}
}

func baselineSection(b models.Baseline) *output.Section {
	return &output.Section{
		Title:   "Baseline",
		Content: fmt.Sprintf("Previous CGPA:    %s\nPrevious credits: %d", cgpa.FormatDecimal(b.PreviousCGPA), b.PreviousCredits),
		Data:    b,
	}
}

func scaleTable() *output.Table {
	entries := grading.Scale()
	rows := make([][]string, 0, len(entries)+len(grading.Marks()))
	for _, e := range entries {
		rows = append(rows, []string{string(e.Grade), e.Percent, strconv.FormatFloat(e.Point, 'f', 2, 64), e.Band})
	}
	for _, m := range grading.Marks() {
		rows = append(rows, []string{m.Code, "-", models.NotAvailable, m.Meaning})
	}
	return output.NewTable("Grading Scale", []string{"Grade", "Numerical %", "Points", "Band"}, rows, nil, entries)
}

func analyticsReport(a *models.Analytics, colored bool) *output.Report {
	overview := &output.Section{
		Title: "Overview",
		Content: fmt.Sprintf("Courses:            %d\nCredit hours:       %d\nCGPA:               %s\nMost common grade:  %s\nHighest grade:      %s",
			a.TotalCourses, a.TotalCredits, a.CGPA, a.MostCommonGrade, a.HighestGrade),
	}

	dist := make([][]string, len(a.GradeCounts))
	for i, gc := range a.GradeCounts {
		dist[i] = []string{string(gc.Grade), strconv.Itoa(gc.Count), gradeCell(gc.Grade, strings.Repeat("#", gc.Count), colored)}
	}

	sems := make([][]string, len(a.SemesterGPAs))
	for i, s := range a.SemesterGPAs {
		sems[i] = []string{s.Semester, cgpa.FormatDecimal(s.GPA), strconv.Itoa(s.Credits), strconv.Itoa(s.Courses)}
	}

	crossHeaders := []string{"Credits"}
	for _, g := range models.AllGrades {
		crossHeaders = append(crossHeaders, string(g))
	}
	cross := make([][]string, len(a.CrossTab))
	for i, row := range a.CrossTab {
		cells := []string{strconv.Itoa(row.CreditHours)}
		for _, gc := range row.Counts {
			cells = append(cells, strconv.Itoa(gc.Count))
		}
		cross[i] = cells
	}

	sections := []output.Renderable{
		overview,
		output.NewTable("Grade Distribution", []string{"Grade", "Count", ""}, dist, nil, nil),
		output.NewTable("Credit Hours by Grade", crossHeaders, cross, nil, nil),
	}
	if len(a.SemesterGPAs) > 0 {
		sections = append(sections,
			output.NewTable("Semester GPA", []string{"Semester", "GPA", "Credits", "Courses"}, sems, nil, nil),
			&output.Section{
				Title: "Trend",
				Content: fmt.Sprintf("Slope:        %+.3f GPA per semester\nR squared:    %.3f\nPoint spread: %.2f (mean %.2f)",
					a.Trend.Slope, a.Trend.RSquared, a.PointStats.StdDev, a.PointStats.Mean),
			},
		)
	}

	return &output.Report{
		Title:    "Course Analytics",
		Sections: sections,
		Data:     a,
	}
}
