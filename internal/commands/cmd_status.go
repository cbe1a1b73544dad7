package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tickdown/internal/core/styles"
	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/iojson"
)

const progressWidth = 24

type StatusCmd struct {
	flags *Flags
	app   *tickdown.App

	// flags
	jsonOutput bool
}

// NewStatusCmd creates a new status command
func NewStatusCmd(flags *Flags, app *tickdown.App) *StatusCmd {
	return &StatusCmd{flags: flags, app: app}
}

// Register adds the status command to the application
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "status",
		Usage:       "Show task counts and running timers",
		UsageText:   "tickdown status [--json]",
		Description: "Summarizes tasks by state and shows progress for every running timer.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	owner := cmd.app.Config.Owner

	stats, err := cmd.app.Tasks.Stats(ctx, owner)
	if err != nil {
		return err
	}

	timers, err := cmd.app.Tasks.Timers(ctx, owner)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, struct {
			Stats  tickdown.Stats         `json:"stats"`
			Timers []tickdown.TimerStatus `json:"timers"`
		}{stats, timers})
	}

	_, _ = fmt.Fprintln(c.Root().Writer, renderStatus(stats, timers))
	return nil
}

func renderStatus(stats tickdown.Stats, timers []tickdown.TimerStatus) string {
	card := func(label string, value string, valueStyle lipgloss.Style) string {
		return styles.CardStyle.Render(
			styles.TextMutedStyle.Render(label) + "\n" + valueStyle.Render(value),
		)
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Active", fmt.Sprint(stats.Active), styles.TextPrimaryBoldStyle),
		card("Timers", fmt.Sprint(stats.Timered), styles.TextWarningStyle),
		card("Completed", fmt.Sprint(stats.Completed), styles.TextSuccessStyle),
		card("Total", fmt.Sprint(stats.Total), styles.TextForegroundBoldStyle),
		card("Done", fmt.Sprintf("%.0f%%", stats.CompletionRate), styles.TextForegroundBoldStyle),
	)

	if len(timers) == 0 {
		return cards + "\n" + styles.TextMutedStyle.Render("No running timers")
	}

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")
	b.WriteString(styles.TextForegroundBoldStyle.Render("Running timers"))
	for _, ts := range timers {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s %s  %s",
			styles.ProgressBar(ts.Progress, progressWidth),
			styles.TextMutedStyle.Render(fmt.Sprintf("%3.0f%%", ts.Progress)),
			styles.TextMutedStyle.Render(formatRemaining(ts.Remaining)),
			ts.Task.Text,
		)
	}
	return b.String()
}

// formatRemaining renders d as minutes and seconds, e.g. "12m05s left".
func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%dm%02ds left", int(d.Minutes()), int(d.Seconds())%60)
}
