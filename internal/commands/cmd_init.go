package commands

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	initcmd "github.com/hay-kot/tickdown/internal/commands/init"
)

type InitCmd struct {
	flags     *Flags
	yes       bool
	force     bool
	owner     string
	documents []string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize tickdown configuration with an interactive wizard",
		UsageText: "tickdown init [options]",
		Description: `Sets up tickdown for first-time use.

The wizard asks for the task owner, the markdown documents to watch, and the
quiet period, then writes the config file (see --config).

Use --yes to accept all defaults without prompts. Prompts are skipped
automatically when stdin is not a terminal.
Use --force to overwrite existing configuration; the old file is kept as
config.yaml.bak.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "owner",
				Usage:       "task owner (defaults to $USER)",
				Destination: &cmd.owner,
			},
			&cli.StringSliceFlag{
				Name:        "document",
				Aliases:     []string{"d"},
				Usage:       "markdown file or glob to watch (repeatable)",
				Destination: &cmd.documents,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	var documents []string
	if len(cmd.documents) > 0 {
		documents = cmd.documents
	}

	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		Yes:        cmd.yes || !term.IsTerminal(int(os.Stdin.Fd())),
		Force:      cmd.force,
		Owner:      cmd.owner,
		Documents:  documents,
		Out:        c.Root().ErrWriter,
	})

	if err := wizard.Run(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}
	return nil
}
