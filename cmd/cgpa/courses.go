package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/cgpa/internal/session"
	"github.com/panbanda/cgpa/pkg/importer"
	"github.com/panbanda/cgpa/pkg/models"
)

var errUsage = errors.New("wrong number of arguments")

// position reads the 1-based course number from the first argument and
// returns it zero-based.
func position(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("%w: expected a course number", errUsage)
	}
	n, err := strconv.Atoi(c.Args().First())
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid course number %q", c.Args().First())
	}
	return n - 1, nil
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a course",
		ArgsUsage: "<name> <grade> <credits> [semester]",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() < 3 || c.NArg() > 4 {
				return fmt.Errorf("%w: usage: cgpa add %s", errUsage, c.Command.ArgsUsage)
			}
			course, err := importer.ParseRow(c.Args().Slice())
			if err != nil {
				return err
			}
			added, err := e.ctl.AddCourse(course)
			if err != nil {
				return err
			}
			e.out.Success("Added %s (%s, %d credit hours).", added.CourseName, added.Grade, added.CreditHours)
			return nil
		}),
	}
}

func editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change fields of a course",
		ArgsUsage: "<n>",
		Description: `Flags must come before the course number:

  cgpa edit --grade B+ 2`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "New course name"},
			&cli.StringFlag{Name: "grade", Usage: "New letter grade"},
			&cli.IntFlag{Name: "credits", Usage: "New credit hours (1, 2 or 3)"},
			&cli.StringFlag{Name: "semester", Usage: "New semester label (empty to clear)"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			idx, err := position(c)
			if err != nil {
				return err
			}
			courses := e.ctl.State().Courses
			if idx >= len(courses) {
				return fmt.Errorf("course %d: %w", idx+1, session.ErrOutOfRange)
			}

			course := courses[idx]
			if c.IsSet("name") {
				course.CourseName = c.String("name")
			}
			if c.IsSet("grade") {
				course.Grade = models.Grade(c.String("grade"))
			}
			if c.IsSet("credits") {
				course.CreditHours = c.Int("credits")
			}
			if c.IsSet("semester") {
				course.Semester = c.String("semester")
			}

			updated, err := e.ctl.UpdateCourse(idx, course)
			if err != nil {
				return err
			}
			e.out.Success("Updated course %d: %s (%s, %d credit hours).", idx+1, updated.CourseName, updated.Grade, updated.CreditHours)
			return nil
		}),
	}
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Remove a course",
		ArgsUsage: "<n>",
		Action: withEnv(func(c *cli.Context, e *env) error {
			idx, err := position(c)
			if err != nil {
				return err
			}
			removed, err := e.ctl.DeleteCourse(idx)
			if err != nil {
				return fmt.Errorf("course %d: %w", idx+1, err)
			}
			e.out.Success("Deleted %s.", removed.CourseName)
			return nil
		}),
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List courses in entry order",
		Action: withEnv(func(c *cli.Context, e *env) error {
			return e.out.Output(coursesTable(e.ctl.State().Courses, e.colorText()))
		}),
	}
}

func showCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show current and combined CGPA and total credits",
		Action: withEnv(func(c *cli.Context, e *env) error {
			return printSummary(e)
		}),
	}
}

func printSummary(e *env) error {
	st := e.ctl.State()
	sum, err := e.ctl.Summary()
	if err != nil {
		return err
	}
	return e.out.Output(summarySection(sum, st.Baseline))
}

func baselineCmd() *cli.Command {
	return &cli.Command{
		Name:  "baseline",
		Usage: "Show or set CGPA and credit hours earned before the listed courses",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "cgpa", Usage: "Previous CGPA (0 to 4)"},
			&cli.IntFlag{Name: "credits", Usage: "Previous credit hours"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			b := e.ctl.State().Baseline
			if !c.IsSet("cgpa") && !c.IsSet("credits") {
				return e.out.Output(baselineSection(b))
			}
			if c.IsSet("cgpa") {
				b.PreviousCGPA = c.Float64("cgpa")
			}
			if c.IsSet("credits") {
				b.PreviousCredits = c.Int("credits")
			}
			if err := e.ctl.SetBaseline(b); err != nil {
				return err
			}
			e.out.Success("Baseline set to CGPA %.2f over %d credit hours.", b.PreviousCGPA, b.PreviousCredits)
			return nil
		}),
	}
}

func clearCmd() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove every course and reset the baseline",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if !c.Bool("yes") && !confirm(c, "Clear all courses and the baseline? [y/N] ") {
				e.out.Info("Nothing was cleared.")
				return nil
			}
			if err := e.ctl.Clear(); err != nil {
				return err
			}
			e.out.Success("All courses and the baseline were cleared.")
			return nil
		}),
	}
}

// confirm asks a yes/no question on the notice stream and reads the answer
// from the app's reader. Anything but y or yes declines.
func confirm(c *cli.Context, prompt string) bool {
	fmt.Fprint(c.App.ErrWriter, prompt)
	line, _ := bufio.NewReader(c.App.Reader).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func themeCmd() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or change the color theme",
		ArgsUsage: "[light|dark|toggle]",
		Action: withEnv(func(c *cli.Context, e *env) error {
			current := e.ctl.State().Theme
			if c.NArg() == 0 {
				fmt.Fprintln(e.out.Writer(), current)
				return nil
			}

			var next models.Theme
			switch arg := strings.ToLower(c.Args().First()); arg {
			case "toggle":
				next = current.Toggle()
			case string(models.ThemeLight), string(models.ThemeDark):
				next = models.Theme(arg)
			default:
				return fmt.Errorf("unknown theme %q (want light, dark or toggle)", arg)
			}

			if err := e.ctl.SetTheme(next); err != nil {
				return err
			}
			e.out.SetTheme(next)
			e.out.Success("Theme set to %s.", next)
			return nil
		}),
	}
}
