package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/cgpa/internal/report"
	"github.com/panbanda/cgpa/pkg/analyzer/analytics"
)

const defaultReportFile = "cgpa-report.html"

func analyticsCmd() *cli.Command {
	return &cli.Command{
		Name:  "analytics",
		Usage: "Summarize the grade distribution, semester trend and credit mix",
		Action: withEnv(func(c *cli.Context, e *env) error {
			a, err := analytics.New().Analyze(c.Context, e.ctl.State().Courses)
			if err != nil {
				return err
			}
			return e.out.Output(analyticsReport(a, e.colorText()))
		}),
	}
}

func scaleCmd() *cli.Command {
	return &cli.Command{
		Name:  "scale",
		Usage: "Print the grading scale",
		Action: withEnv(func(c *cli.Context, e *env) error {
			return e.out.Output(scaleTable())
		}),
	}
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Write an HTML analytics report",
		ArgsUsage: "[file.html]",
		Action: withEnv(func(c *cli.Context, e *env) error {
			path := defaultReportFile
			if c.NArg() > 0 {
				path = c.Args().First()
			}

			st := e.ctl.State()
			data, err := report.Build(c.Context, st.Courses, st.Baseline, report.Metadata{
				Title:       "CGPA Report",
				GeneratedAt: time.Now(),
				Theme:       st.Theme,
				Version:     version,
			})
			if err != nil {
				return err
			}

			renderer, err := report.NewRenderer()
			if err != nil {
				return fmt.Errorf("load report template: %w", err)
			}
			if err := renderer.RenderToFile(data, path); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			e.out.Success("Report written to %s", path)
			return nil
		}),
	}
}
