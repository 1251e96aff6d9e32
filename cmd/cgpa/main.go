package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/cgpa/internal/logger"
	"github.com/panbanda/cgpa/internal/output"
	"github.com/panbanda/cgpa/internal/session"
	"github.com/panbanda/cgpa/internal/sheet"
	"github.com/panbanda/cgpa/internal/store"
	"github.com/panbanda/cgpa/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdout, os.Stderr, os.Stdin)
	if err := app.RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer, stdin io.Reader) *cli.App {
	return &cli.App{
		Name:    "cgpa",
		Usage:   "Track courses and compute your cumulative grade point average",
		Version: version,
		Description: `cgpa keeps a list of graded courses, computes the credit-weighted CGPA on a
4.0 scale (optionally combined with earlier history), summarizes grade
analytics, and moves the list in and out of .xlsx and .csv spreadsheets.

Grades: A+ A B+ B C+ C D+ D F. Credit hours: 1, 2 or 3.`,
		Writer:    stdout,
		ErrWriter: stderr,
		Reader:    stdin,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"CGPA_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringFlag{
				Name:  "state-dir",
				Usage: "Directory holding the saved session",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging on stderr",
			},
		},
		Commands: []*cli.Command{
			addCmd(),
			editCmd(),
			deleteCmd(),
			listCmd(),
			showCmd(),
			baselineCmd(),
			clearCmd(),
			importCmd(),
			exportCmd(),
			analyticsCmd(),
			scaleCmd(),
			themeCmd(),
			reportCmd(),
			watchCmd(),
			mcpCmd(),
			configCmd(),
		},
	}
}

// env is everything a session command needs, built from flags and config.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *store.Store
	out   *output.Formatter
	ctl   *session.Controller
}

// loadConfig resolves the config file and applies global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}

	cfg := result.Config
	if dir := c.String("state-dir"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	return cfg, nil
}

// setup opens the saved session. The formatter exists first so that load
// warnings reach the user; the saved theme is applied once the session is open.
func setup(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	var log zerolog.Logger
	if c.App.ErrWriter == os.Stderr {
		log = logger.New(cfg.Log.Level, c.Bool("verbose"))
	} else {
		log = logger.NewWithWriter(c.App.ErrWriter, cfg.Log.Level, c.Bool("verbose"), false)
	}

	st, err := store.New(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open state directory: %w", err)
	}
	if stats, err := st.GetStats(); err == nil {
		log.Debug().
			Str("dir", st.Dir()).
			Int("entries", stats.Entries).
			Int64("bytes", stats.TotalSize).
			Time("updated", stats.Updated).
			Msg("state directory")
	}

	out, err := output.NewFormatter(
		output.ParseFormat(cfg.Output.Format),
		c.String("output"),
		cfg.Output.Color,
		output.WithWriter(c.App.Writer),
		output.WithNoticeWriter(c.App.ErrWriter),
	)
	if err != nil {
		return nil, err
	}

	ctl, err := openSession(st, out, log, cfg)
	if err != nil {
		out.Close()
		return nil, err
	}
	out.SetTheme(ctl.State().Theme)

	return &env{cfg: cfg, log: log, store: st, out: out, ctl: ctl}, nil
}

func openSession(st *store.Store, n output.Notifier, log zerolog.Logger, cfg *config.Config) (*session.Controller, error) {
	return session.Open(st,
		session.WithNotifier(n),
		session.WithLogger(log),
		session.WithSheetOptions(sheet.Options{Sheet: cfg.Import.Sheet, MaxRows: cfg.Import.MaxRows}),
	)
}

// colorText reports whether rendered tables may carry ANSI colors.
func (e *env) colorText() bool {
	return e.out.Colored() && e.out.Format() == output.FormatText
}

func (e *env) Close() error {
	return e.out.Close()
}

// withEnv wraps a command action that needs the session.
func withEnv(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := setup(c)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(c, e)
	}
}
