package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/iojson"
)

// TaskCmd implements the id-addressed task actions: check, uncheck,
// complete, and rm.
type TaskCmd struct {
	flags *Flags
	app   *tickdown.App
}

// NewTaskCmd creates the task action commands.
func NewTaskCmd(flags *Flags, app *tickdown.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

// Register adds the task action commands to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "check",
			Usage:     "Check a task and start its timer",
			UsageText: "tickdown check <id>",
			Description: `Checks a task. The task completes automatically once its timer
window (timer.duration, default 1h) elapses, unless it is unchecked first.
Checking an already checked task leaves its timer untouched.`,
			Action: cmd.action((*tickdown.TaskService).Check),
		},
		&cli.Command{
			Name:        "uncheck",
			Usage:       "Uncheck a task, cancelling its timer or completion",
			UsageText:   "tickdown uncheck <id>",
			Description: "Returns a task to the active state.",
			Action:      cmd.action((*tickdown.TaskService).Uncheck),
		},
		&cli.Command{
			Name:        "complete",
			Usage:       "Complete a task immediately",
			UsageText:   "tickdown complete <id>",
			Description: "Finalizes a task without waiting for its timer.",
			Action:      cmd.action((*tickdown.TaskService).Complete),
		},
		&cli.Command{
			Name:      "rm",
			Usage:     "Delete a task",
			UsageText: "tickdown rm <id>",
			Action:    cmd.runDelete,
		},
	)

	return app
}

type taskAction func(s *tickdown.TaskService, ctx context.Context, owner, id string) (task.Task, error)

// action takes a method expression so the service is resolved at run time;
// the App is populated in the Before hook, after commands are registered.
func (cmd *TaskCmd) action(fn taskAction) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id, err := requireID(c)
		if err != nil {
			return err
		}

		t, err := fn(cmd.app.Tasks, ctx, cmd.app.Config.Owner, id)
		if err != nil {
			return taskError(id, err)
		}

		return iojson.WriteLine(c.Root().Writer, taskInfoFrom(t))
	}
}

func (cmd *TaskCmd) runDelete(ctx context.Context, c *cli.Command) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	if err := cmd.app.Tasks.Delete(ctx, cmd.app.Config.Owner, id); err != nil {
		return taskError(id, err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, id)
	return nil
}

func requireID(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", errors.New("exactly one task id is required")
	}
	return c.Args().First(), nil
}

func taskError(id string, err error) error {
	if errors.Is(err, task.ErrNotFound) {
		return fmt.Errorf("task %q not found", id)
	}
	return err
}
