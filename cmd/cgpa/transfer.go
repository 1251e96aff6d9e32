package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/cgpa/internal/progress"
	"github.com/panbanda/cgpa/internal/session"
	"github.com/panbanda/cgpa/pkg/models"
)

const defaultExportFile = "cgpa_data.xlsx"

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Replace the course list with the valid rows of a spreadsheet",
		ArgsUsage: "<file.xlsx|file.csv>",
		Description: `Columns are read by position from the second row: Course Name, Grade,
Credit Hours and an optional Semester. Invalid rows are skipped and reported.
The baseline is reset. A file that cannot be read leaves the list unchanged.`,
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return fmt.Errorf("%w: usage: cgpa import %s", errUsage, c.Command.ArgsUsage)
			}
			path := c.Args().First()

			var result *models.ImportResult
			err := progress.Run(c.App.ErrWriter, "Importing "+path, func() error {
				var err error
				result, err = e.ctl.Import(c.Context, path)
				return err
			})
			if err != nil {
				return err
			}

			for _, skipped := range result.Skipped {
				e.out.Warning("Row %d skipped: %s", skipped.Row, skipped.Reason)
			}
			if result.Outcome == models.ImportEmpty {
				e.out.Warning("No valid courses found in %s. The course list is now empty.", path)
				return nil
			}
			e.out.Success("Imported %d courses from %s (%d rows skipped).", len(result.Courses), path, result.SkippedCount())
			return nil
		}),
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write the course list to a spreadsheet",
		ArgsUsage: "[file.xlsx|file.csv]",
		Description: `Writes one row per course under the header Course Name, Grade, Credit Hours,
plus a Semester column when any course has one. The file defaults to
` + defaultExportFile + `. Nothing is written when the list is empty.`,
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() > 1 {
				return fmt.Errorf("%w: usage: cgpa export %s", errUsage, c.Command.ArgsUsage)
			}
			path := defaultExportFile
			if c.NArg() == 1 {
				path = c.Args().First()
			}

			var n int
			err := progress.Run(c.App.ErrWriter, "Exporting "+path, func() error {
				var err error
				n, err = e.ctl.Export(c.Context, path)
				return err
			})
			if errors.Is(err, session.ErrNothingToExport) {
				e.out.Warning("No courses to export. %s was not written.", path)
				return nil
			}
			if err != nil {
				return err
			}
			e.out.Success("Exported %d courses to %s.", n, path)
			return nil
		}),
	}
}
