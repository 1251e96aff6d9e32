package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/panbanda/cgpa/internal/output"
	"github.com/panbanda/cgpa/pkg/analyzer/analytics"
	"github.com/panbanda/cgpa/pkg/analyzer/cgpa"
	"github.com/panbanda/cgpa/pkg/grading"
	"github.com/panbanda/cgpa/pkg/importer"
	"github.com/panbanda/cgpa/pkg/models"
)

// Common input structures for tools

// FormatInput is embedded by every tool input.
type FormatInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// CourseInput is one course as supplied by the caller.
type CourseInput struct {
	CourseName  string `json:"courseName" jsonschema:"Course name. Must not be blank."`
	Grade       string `json:"grade" jsonschema:"Letter grade: A+, A, B+, B, C+, C, D+, D or F. Case-insensitive."`
	CreditHours int    `json:"creditHours" jsonschema:"Credit hours: 1, 2 or 3."`
	Semester    string `json:"semester,omitempty" jsonschema:"Optional semester label used for the GPA trend."`
}

// ComputeInput is the input for compute_cgpa.
type ComputeInput struct {
	FormatInput
	Courses         []CourseInput `json:"courses,omitempty" jsonschema:"Courses to include. Defaults to the saved session when empty."`
	PreviousCGPA    float64       `json:"previous_cgpa,omitempty" jsonschema:"CGPA earned before these courses, 0 to 4."`
	PreviousCredits int           `json:"previous_credits,omitempty" jsonschema:"Credit hours behind previous_cgpa."`
}

// AnalyzeInput is the input for analyze_courses.
type AnalyzeInput struct {
	FormatInput
	Courses []CourseInput `json:"courses,omitempty" jsonschema:"Courses to analyze. Defaults to the saved session when empty."`
}

// ValidateRowsInput is the input for validate_rows.
type ValidateRowsInput struct {
	FormatInput
	Rows [][]string `json:"rows" jsonschema:"Spreadsheet rows. The first row is the header and is ignored."`
}

// ScaleInput is the input for grading_scale.
type ScaleInput struct {
	FormatInput
}

// Helper functions

func getFormat(input FormatInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// toCourses validates caller input. Any invalid course fails the call.
func toCourses(in []CourseInput) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(in))
	for i, c := range in {
		course, err := models.ValidateCourse(models.Course{
			CourseName:  c.CourseName,
			Grade:       models.Grade(c.Grade),
			CreditHours: c.CreditHours,
			Semester:    c.Semester,
		})
		if err != nil {
			return nil, fmt.Errorf("course %d: %w", i+1, err)
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// resolve returns the caller's courses, or the saved session when none
// were passed and a session is attached.
func (s *Server) resolve(in []CourseInput) ([]models.Course, *models.Baseline, error) {
	if len(in) == 0 && s.state != nil {
		st := s.state()
		return st.Courses, &st.Baseline, nil
	}
	courses, err := toCourses(in)
	return courses, nil, err
}

// Tool handlers

func (s *Server) handleComputeCGPA(ctx context.Context, req *mcp.CallToolRequest, input ComputeInput) (*mcp.CallToolResult, any, error) {
	courses, saved, err := s.resolve(input.Courses)
	if err != nil {
		return toolError(err.Error())
	}

	baseline := models.Baseline{PreviousCGPA: input.PreviousCGPA, PreviousCredits: input.PreviousCredits}
	if saved != nil && baseline.IsZero() {
		baseline = *saved
	}
	if err := models.ValidateBaseline(baseline); err != nil {
		return toolError(err.Error())
	}

	result, err := cgpa.New(cgpa.WithBaseline(baseline)).Analyze(ctx, courses)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, getFormat(input.FormatInput))
}

func (s *Server) handleAnalyzeCourses(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	courses, _, err := s.resolve(input.Courses)
	if err != nil {
		return toolError(err.Error())
	}

	result, err := analytics.New().Analyze(ctx, courses)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, getFormat(input.FormatInput))
}

func handleValidateRows(ctx context.Context, req *mcp.CallToolRequest, input ValidateRowsInput) (*mcp.CallToolResult, any, error) {
	if len(input.Rows) == 0 {
		return toolError("no rows provided")
	}
	return toolResult(importer.Validate(input.Rows), getFormat(input.FormatInput))
}

func handleGradingScale(ctx context.Context, req *mcp.CallToolRequest, input ScaleInput) (*mcp.CallToolResult, any, error) {
	return toolResult(grading.Scale(), getFormat(input.FormatInput))
}
