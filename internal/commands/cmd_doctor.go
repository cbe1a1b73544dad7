package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/core/doctor"
	"github.com/hay-kot/tickdown/internal/core/styles"
	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *tickdown.App
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags, app *tickdown.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your tickdown setup",
		UsageText:   "tickdown doctor [options]",
		Description: "Runs diagnostic checks on configuration, the task database, watched documents, and running timers.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "automatically fix issues (e.g., complete overdue timers)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := cmd.app.Doctor.RunChecks(ctx, cmd.flags.ConfigPath, cmd.autofix)
	tally := doctor.Count(results)

	var err error
	if cmd.format == "json" {
		err = iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, struct {
			Healthy bool            `json:"healthy"`
			Summary doctor.Tally    `json:"summary"`
			Checks  []doctor.Result `json:"checks"`
		}{tally.Healthy(), tally, results})
	} else {
		cmd.outputText(c, results, tally)
	}
	if err != nil {
		return err
	}

	if !tally.Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) outputText(c *cli.Command, results []doctor.Result, tally doctor.Tally) {
	w := c.Root().ErrWriter
	divider := styles.TextMutedStyle.Render(strings.Repeat("─", 40))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.TextPrimaryBoldStyle.Render("Tickdown Doctor"))
	_, _ = fmt.Fprintln(w, divider)
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, styles.TextForegroundBoldStyle.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + styles.TextMutedStyle.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = styles.TextSuccessStyle.Render("✔")
			case doctor.StatusWarn:
				icon = styles.TextWarningStyle.Render("●")
			case doctor.StatusFail:
				icon = styles.TextErrorStyle.Render("✘")
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		styles.TextSuccessStyle.Render(fmt.Sprintf("%d passed", tally.Passed)),
		styles.TextWarningStyle.Render(fmt.Sprintf("%d warnings", tally.Warned)),
		styles.TextErrorStyle.Render(fmt.Sprintf("%d failed", tally.Failed)),
	)

	if !cmd.autofix && tally.Fixable > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.TextMutedStyle.Render(
			fmt.Sprintf("Run 'tickdown doctor --autofix' to fix %d issue(s)", tally.Fixable)))
	}
}
