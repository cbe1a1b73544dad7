package initcmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/tickdown/internal/core/config"
)

// Render produces a commented YAML config holding cfg's values.
func Render(cfg config.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# tickdown configuration\n\n")
	fmt.Fprintf(&b, "# Tasks are stored per owner.\nowner: %q\n\n", cfg.Owner)
	fmt.Fprintf(&b, "theme: %s\n\n", cfg.Theme)

	fmt.Fprintf(&b, "timer:\n")
	fmt.Fprintf(&b, "  # How long a checked task stays uncheckable before it completes.\n")
	fmt.Fprintf(&b, "  duration: %s\n", cfg.Timer.Duration)
	fmt.Fprintf(&b, "  sweep_interval: %s\n\n", cfg.Timer.SweepInterval)

	fmt.Fprintf(&b, "sync:\n")
	fmt.Fprintf(&b, "  # Documents are only rewritten after this long without edits.\n")
	fmt.Fprintf(&b, "  quiet_period: %s\n", cfg.Sync.QuietPeriod)
	fmt.Fprintf(&b, "  debounce: %s\n", cfg.Sync.Debounce)
	fmt.Fprintf(&b, "  interval: %s\n\n", cfg.Sync.Interval)

	fmt.Fprintf(&b, "# Markdown files or doublestar globs for 'tickdown watch'.\n")
	if len(cfg.Documents) == 0 {
		fmt.Fprintf(&b, "documents: []\n")
	} else {
		fmt.Fprintf(&b, "documents:\n")
		for _, d := range cfg.Documents {
			fmt.Fprintf(&b, "  - %q\n", d)
		}
	}

	fmt.Fprintf(&b, "\ndatabase:\n")
	fmt.Fprintf(&b, "  max_open_conns: %d\n", cfg.Database.MaxOpenConns)
	fmt.Fprintf(&b, "  max_idle_conns: %d\n", cfg.Database.MaxIdleConns)
	fmt.Fprintf(&b, "  busy_timeout: %d\n", cfg.Database.BusyTimeout)

	return b.String()
}

func parseQuietPeriod(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}
