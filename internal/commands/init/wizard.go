package initcmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/tickdown/internal/core/config"
	"github.com/hay-kot/tickdown/internal/core/styles"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool     // skip prompts, use defaults
	Force      bool     // overwrite existing config
	Owner      string   // pre-specified owner ("" = $USER)
	Documents  []string // pre-specified documents (nil = prompt)
	Out        io.Writer
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(_ context.Context) error {
	force := w.opts.Force

	// Check for existing config
	if ConfigExists(w.opts.ConfigPath) && !force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&force).
			Run()
		if err != nil {
			return err
		}
		if !force {
			w.printf(styles.TextMutedStyle, "Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if w.opts.Owner != "" {
		cfg.Owner = w.opts.Owner
	}
	if w.opts.Documents != nil {
		cfg.Documents = w.opts.Documents
	}

	if !w.opts.Yes {
		if err := w.promptUser(&cfg); err != nil {
			return err
		}
	}

	backup, err := WriteConfig(w.opts.ConfigPath, Render(cfg), force)
	if err != nil {
		return err
	}
	if backup != "" {
		w.printf(styles.TextSuccessStyle, "✔ Backed up config to: %s", backup)
	}
	w.printf(styles.TextSuccessStyle, "✔ Wrote %s", w.opts.ConfigPath)

	w.printNextSteps(cfg)
	return nil
}

func (w *Wizard) promptUser(cfg *config.Config) error {
	documents := strings.Join(cfg.Documents, ", ")
	quiet := cfg.Sync.QuietPeriod.String()

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Owner").
			Description("Tasks are stored per owner").
			Value(&cfg.Owner).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("owner is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Documents").
			Description("Comma-separated markdown files or globs to watch").
			Value(&documents),
		huh.NewInput().
			Title("Quiet period").
			Description("How long a document must be left alone before checks are written back").
			Value(&quiet).
			Validate(func(s string) error {
				_, err := parseQuietPeriod(s)
				return err
			}),
	))
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Owner = strings.TrimSpace(cfg.Owner)
	cfg.Documents = splitList(documents)

	d, err := parseQuietPeriod(quiet)
	if err != nil {
		return err
	}
	cfg.Sync.QuietPeriod = d
	return nil
}

func (w *Wizard) printNextSteps(cfg config.Config) {
	w.printf(styles.TextForegroundBoldStyle, "\nNext Steps")

	step := 1
	if len(cfg.Documents) == 0 {
		w.printf(styles.TextForegroundStyle, "  %d. Add markdown files to 'documents' in %s", step, w.opts.ConfigPath)
		step++
	}
	w.printf(styles.TextForegroundStyle, "  %d. Run 'tickdown doctor' to check your setup", step)
	step++
	w.printf(styles.TextForegroundStyle, "  %d. Run 'tickdown watch' to start syncing", step)
}

func (w *Wizard) printf(style lipgloss.Style, format string, args ...any) {
	_, _ = fmt.Fprintln(w.opts.Out, style.Render(fmt.Sprintf(format, args...)))
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
