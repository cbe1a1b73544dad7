package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/core/markdown"
	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/iojson"
)

type AddCmd struct {
	flags *Flags
	app   *tickdown.App

	// flags
	doc string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *tickdown.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Quick-add a task",
		UsageText: "tickdown add [--doc <file>] <text...>",
		Description: `Creates an Active task and prints it as JSON.

With --doc, an unchecked "- [ ] <text>" line is also appended to the given
markdown document so the file and the store agree immediately.

Examples:
  tickdown add buy milk
  tickdown add --doc ~/notes/today.md "call the bank"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "doc",
				Aliases:     []string{"d"},
				Usage:       "markdown document to append the task to",
				Destination: &cmd.doc,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return errors.New("task text is required")
	}

	created, err := cmd.app.Tasks.Add(ctx, cmd.app.Config.Owner, text)
	if err != nil {
		return err
	}

	if cmd.doc != "" {
		if err := appendToDocument(cmd.doc, created.Text); err != nil {
			return fmt.Errorf("task %s created but not appended: %w", created.ID, err)
		}
	}

	return iojson.WriteLine(c.Root().Writer, created)
}

func appendToDocument(path, text string) error {
	var (
		existing string
		mode     os.FileMode = 0o644
	)

	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return err
	}

	return os.WriteFile(path, []byte(markdown.AppendTask(existing, text)), mode)
}
