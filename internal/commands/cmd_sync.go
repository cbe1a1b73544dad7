package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/tickdown"
)

type SyncCmd struct {
	flags *Flags
	app   *tickdown.App

	// flags
	dryRun bool
}

// NewSyncCmd creates a new sync command
func NewSyncCmd(flags *Flags, app *tickdown.App) *SyncCmd {
	return &SyncCmd{flags: flags, app: app}
}

// Register adds the sync command to the application
func (cmd *SyncCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sync",
		Usage:     "Write store-side checks back into a markdown document",
		UsageText: "tickdown sync [--dry-run] <file>",
		Description: `Flips "[ ]" to "[x]" for every line whose task is checked or completed
in the store. Lines are never unchecked and nothing else in the file changes.

The file is only rewritten when it has not been modified within
sync.quiet_period, so a document that is being edited is left alone.

Use --dry-run to print the synced document instead of writing it.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print the result to stdout without writing",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SyncCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" || path == "-" {
		return errors.New("a document path is required")
	}

	doc, err := readDocument(path, nil)
	if err != nil {
		return err
	}

	out, changed, err := cmd.app.SyncText(ctx, doc.Text, doc.ModTime)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if cmd.dryRun {
		_, _ = fmt.Fprint(c.Root().Writer, out)
		return nil
	}

	if !changed {
		_, _ = fmt.Fprintln(c.Root().Writer, "up to date")
		return nil
	}

	if err := writeDocument(doc, out); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "synced %s\n", doc.Path)
	return nil
}
