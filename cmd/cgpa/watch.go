package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/cgpa/internal/store"
	"github.com/panbanda/cgpa/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print the summary again whenever the saved session changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 300 * time.Millisecond,
				Usage: "Quiet period before re-rendering",
			},
		},
		Action: withEnv(runWatchCmd),
	}
}

func runWatchCmd(c *cli.Context, e *env) error {
	watcher, err := watch.NewWatcher(e.store.Dir(), c.Duration("debounce"), store.KeyForPath)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.SetLogger(e.log)

	if err := printSummary(e); err != nil {
		return err
	}

	watcher.SetCallback(func(keys []string) {
		e.log.Debug().Strs("keys", keys).Msg("session changed")
		ctl, err := openSession(e.store, e.out, e.log, e.cfg)
		if err != nil {
			e.out.Error("Reload failed: %v", err)
			return
		}
		e.ctl = ctl
		e.out.SetTheme(ctl.State().Theme)
		fmt.Fprintln(e.out.Writer())
		if err := printSummary(e); err != nil {
			e.out.Error("%v", err)
		}
	})

	e.out.Info("Watching %s (Ctrl+C to stop)", e.store.Dir())
	err = watcher.Start(c.Context)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
