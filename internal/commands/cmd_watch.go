package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/logging"
	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/internal/tickdown/sweep"
	"github.com/hay-kot/tickdown/pkg/profiler"
)

type WatchCmd struct {
	flags *Flags
	app   *tickdown.App

	pprofAddr string
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *tickdown.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Keep markdown documents and tasks in sync",
		UsageText: "tickdown watch [<file|glob>...]",
		Description: `Runs until interrupted. Watches every document listed in the config's
'documents' setting plus any files or doublestar globs given as arguments.

  - Edits to a document are debounced and reconciled into the store.
  - Checked tasks complete when their timer elapses (timer.sweep_interval).
  - Checks made elsewhere are written back into the document once it has
    been left alone for sync.quiet_period.

Examples:
  tickdown watch
  tickdown watch ~/notes/today.md 'projects/**/TODO.md'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "pprof",
				Usage:       "serve net/http/pprof on this address (e.g. localhost:6060)",
				Sources:     cli.EnvVars("TICKDOWN_PPROF"),
				Destination: &cmd.pprofAddr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	patterns := append(cmd.app.Config.DocumentPatterns(), c.Args().Slice()...)

	paths, err := expandDocuments(patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no documents to watch; add 'documents' to the config or pass files as arguments")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchers := make([]*tickdown.DocWatcher, 0, len(paths))
	for _, p := range paths {
		watchers = append(watchers, cmd.app.NewDocWatcher(p))
	}

	notifyAll := func() {
		for _, w := range watchers {
			w.Notify()
		}
	}
	if bus := cmd.app.Bus; bus != nil {
		bus.SubscribeTaskCompleted(func(eventbus.TaskCompletedPayload) { notifyAll() })
		bus.SubscribeTaskUpdated(func(p eventbus.TaskUpdatedPayload) {
			if p.Task != nil && p.Task.IsChecked() {
				notifyAll()
			}
		})
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sweep.Start(ctx, cmd.app.Expiry, cmd.app.Config.Timer.SweepInterval)
		return nil
	})

	if cmd.pprofAddr != "" {
		server := profiler.New(cmd.pprofAddr)
		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	for _, w := range watchers {
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	logger := logging.Component("watch")
	logger.Info().Strs("documents", paths).Msg("watching documents")
	_, _ = fmt.Fprintf(c.Root().ErrWriter, "Watching %d document(s). Press Ctrl+C to stop.\n", len(paths))

	return g.Wait()
}

// expandDocuments resolves each pattern to existing files. Plain paths are
// kept even when missing so a typo surfaces as a watch error.
func expandDocuments(patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			out = append(out, filepath.Clean(pattern))
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		out = append(out, matches...)
	}

	for i, p := range out {
		if abs, err := filepath.Abs(p); err == nil {
			out[i] = abs
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
