package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/iojson"
)

type SweepCmd struct {
	flags *Flags
	app   *tickdown.App

	// flags
	jsonOutput bool
	allOwners  bool
}

// NewSweepCmd creates a new sweep command
func NewSweepCmd(flags *Flags, app *tickdown.App) *SweepCmd {
	return &SweepCmd{flags: flags, app: app}
}

// Register adds the sweep command to the application
func (cmd *SweepCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sweep",
		Usage:     "Complete tasks whose timer has elapsed",
		UsageText: "tickdown sweep [--all] [--json]",
		Description: `Runs one expiry pass. Every checked task whose timer window has fully
elapsed is completed. 'tickdown watch' runs this every timer.sweep_interval;
use this command from cron when no watcher is running.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "sweep every owner, not just the configured one",
				Destination: &cmd.allOwners,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the result as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SweepCmd) run(ctx context.Context, c *cli.Command) error {
	var (
		res tickdown.SweepResult
		err error
	)
	if cmd.allOwners {
		res, err = cmd.app.Expiry.Sweep(ctx)
	} else {
		res, err = cmd.app.Expiry.SweepOwner(ctx, cmd.app.Config.Owner)
	}
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		if err := iojson.WriteLine(c.Root().Writer, sweepJSON{
			Scanned:   res.Scanned,
			Completed: res.Completed,
			Failed:    res.Failed,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(c.Root().Writer, "%d timered, %d completed, %d failed\n", res.Scanned, res.Completed, res.Failed)
	}

	if res.Failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type sweepJSON struct {
	Scanned   int `json:"scanned"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
