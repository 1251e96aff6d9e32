package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/cgpa/internal/mcpserver"
	"github.com/panbanda/cgpa/internal/output"
	"github.com/panbanda/cgpa/internal/session"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start an MCP server on stdio for LLM tool use",
		Description: `Exposes compute_cgpa, analyze_courses, validate_rows and grading_scale.
Tools called without courses read the saved session, reloaded on every call
so edits made from another terminal are visible.`,
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP registry manifest (server.json)",
				Action: func(c *cli.Context) error {
					data, err := mcpserver.GenerateManifest(version)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, string(data))
					return nil
				},
			},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			state := func() session.State {
				ctl, err := openSession(e.store, discard{}, e.log, e.cfg)
				if err != nil {
					e.log.Warn().Err(err).Msg("reload session")
					return *session.NewState()
				}
				return ctl.State()
			}
			return mcpserver.NewServer(version, mcpserver.WithState(state)).Run(c.Context)
		}),
	}
}

// discard drops notifications. Stdout belongs to the MCP transport and the
// initial load already reported problems on stderr.
type discard struct{}

func (discard) Notify(output.Severity, string, ...any) {}
