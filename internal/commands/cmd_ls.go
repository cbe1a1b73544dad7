package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *tickdown.App

	// flags
	state      string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *tickdown.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks",
		UsageText: "tickdown ls [--state <state>] [--json]",
		Description: `Displays a table of tasks for the configured owner.

States:
  all        every task, newest first (default)
  active     tasks that are not finalized, newest first
  timered    checked tasks with a running timer, oldest check first
  completed  finalized tasks, most recently completed first

Use --json for JSON lines output.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "state",
				Aliases:     []string{"s"},
				Usage:       "filter by state (all, active, timered, completed)",
				Value:       string(tickdown.FilterAll),
				Destination: &cmd.state,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	filter := tickdown.Filter(cmd.state)
	if !filter.IsValid() {
		return fmt.Errorf("invalid state %q: must be one of all, active, timered, completed", cmd.state)
	}

	tasks, err := cmd.app.Tasks.List(ctx, cmd.app.Config.Owner, filter)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range tasks {
			if err := iojson.WriteLine(out, taskInfoFrom(t)); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATE\tTEXT")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.State(), t.Text)
	}
	return w.Flush()
}

// taskInfo is the JSON output format for tickdown ls --json.
type taskInfo struct {
	task.Task
	State task.State `json:"state"`
}

func taskInfoFrom(t task.Task) taskInfo {
	return taskInfo{Task: t, State: t.State()}
}
