package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/tickdown/internal/commands"
	"github.com/hay-kot/tickdown/internal/core/config"
	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/logging"
	"github.com/hay-kot/tickdown/internal/core/styles"
	"github.com/hay-kot/tickdown/internal/data/db"
	"github.com/hay-kot/tickdown/internal/data/stores"
	"github.com/hay-kot/tickdown/internal/tickdown"
	"github.com/hay-kot/tickdown/pkg/clock"
	"github.com/hay-kot/tickdown/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// commands that must work without a loadable config or database.
var bootstrapCommands = map[string]bool{
	"init": true,
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		app       = &tickdown.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "tickdown",
		Usage:     "Markdown checkbox tasks with auto-completing timers",
		UsageText: "tickdown [global options] command [command options]",
		Description: `tickdown keeps the checkboxes in your markdown files and a task store in sync.

Checking a box starts a timer. If the box is still checked when the timer
runs out (1h by default) the task is completed for good; uncheck it before
then and nothing happens.

Run 'tickdown init' to write a config file, then 'tickdown watch' to keep
your documents in sync.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TICKDOWN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tickdown.log)",
				Sources:     cli.EnvVars("TICKDOWN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TICKDOWN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TICKDOWN_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/tickdown.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "tickdown.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if !term.IsTerminal(int(os.Stdout.Fd())) {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			if bootstrapCommands[c.Args().First()] {
				return ctx, nil
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			bus := eventbus.New(256)
			eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			clk := clock.Real{}
			store := stores.NewTaskStore(database, clk)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*app = *tickdown.NewApp(store, cfg, database, bus, clk, log.Logger)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	root = commands.NewInitCmd(flags).Register(root)
	root = commands.NewAddCmd(flags, app).Register(root)
	root = commands.NewLsCmd(flags, app).Register(root)
	root = commands.NewTaskCmd(flags, app).Register(root)
	root = commands.NewReconcileCmd(flags, app).Register(root)
	root = commands.NewSyncCmd(flags, app).Register(root)
	root = commands.NewSweepCmd(flags, app).Register(root)
	root = commands.NewStatusCmd(flags, app).Register(root)
	root = commands.NewWatchCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)

	exitCode := 0
	runErr := root.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

// openDatabase opens the task database, moving a corrupted file aside and
// starting fresh when SQLite reports corruption.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, err
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, errors.Join(err, rerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database corrupted, moved it aside")
	return db.Open(cfg.DataDir, opts)
}
