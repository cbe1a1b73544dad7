package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/iojson"
)

type ReconcileCmd struct {
	flags *Flags
	app   *tickdown.App

	// flags
	jsonOutput bool
}

// NewReconcileCmd creates a new reconcile command
func NewReconcileCmd(flags *Flags, app *tickdown.App) *ReconcileCmd {
	return &ReconcileCmd{flags: flags, app: app}
}

// Register adds the reconcile command to the application
func (cmd *ReconcileCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reconcile",
		Usage:     "Bring stored tasks in line with a markdown document",
		UsageText: "tickdown reconcile [--json] [<file> | -]",
		Description: `Parses checkbox lines from a markdown document and creates or updates
tasks so each line has a stored task with the same checked state.

Tasks missing from the document are left alone. Running reconcile twice on
the same document makes no changes the second time. Reads stdin when no file
is given; an interactive terminal is refused.

Examples:
  tickdown reconcile ~/notes/today.md
  cat today.md | tickdown reconcile --json`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the reconciled tasks as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReconcileCmd) run(ctx context.Context, c *cli.Command) error {
	doc, err := readDocument(c.Args().First(), os.Stdin)
	if err != nil {
		return err
	}

	res, err := cmd.app.Reconciler.Reconcile(ctx, cmd.app.Config.Owner, doc.Text)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	if cmd.jsonOutput {
		for _, t := range res.Tasks {
			if err := iojson.WriteLine(c.Root().Writer, taskInfoFrom(t)); err != nil {
				return err
			}
		}
		return nil
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%d lines, %d created, %d updated\n", len(res.Tasks), res.Created, res.Updated)
	return nil
}
