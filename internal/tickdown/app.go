package tickdown

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tickdown/internal/core/config"
	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/internal/data/db"
	"github.com/hay-kot/tickdown/pkg/clock"
)

// Store is the full persistence surface the App wires together.
type Store interface {
	task.Store
	task.ExpiryStore
}

// App is the central entry point for all tickdown operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks      *TaskService
	Reconciler *Reconciler
	Expiry     *Expiry
	Doctor     *DoctorService

	Store  Store
	Bus    *eventbus.EventBus
	Config *config.Config
	DB     *db.DB
	Clock  clock.Clock

	log zerolog.Logger
}

// NewApp constructs an App from explicit dependencies.
func NewApp(
	store Store,
	cfg *config.Config,
	database *db.DB,
	bus *eventbus.EventBus,
	clk clock.Clock,
	log zerolog.Logger,
) *App {
	timer := cfg.TaskTimer()
	expiry := NewExpiry(store, timer, clk, bus, log)

	return &App{
		Tasks:      NewTaskService(store, timer, clk, bus, log),
		Reconciler: NewReconciler(store, clk, bus, log),
		Expiry:     expiry,
		Doctor:     NewDoctorService(store, cfg, database, expiry, clk),
		Store:      store,
		Bus:        bus,
		Config:     cfg,
		DB:         database,
		Clock:      clk,
		log:        log,
	}
}

// NewSyncer creates a Syncer using the configured quiet period.
func (a *App) NewSyncer() *Syncer {
	return NewSyncer(a.Config.Sync.QuietPeriod)
}

// NewDocWatcher creates a watcher for path owned by the configured owner.
func (a *App) NewDocWatcher(path string) *DocWatcher {
	return NewDocWatcher(
		DocWatcherOptions{
			Path:     path,
			Owner:    a.Config.Owner,
			Debounce: a.Config.Sync.Debounce,
			Interval: a.Config.Sync.Interval,
		},
		a.Reconciler,
		a.Store,
		a.NewSyncer(),
		a.Clock,
		a.log,
	)
}

// SyncText applies store-side checks to text, a document the user last
// edited at lastEdit. The text is returned unchanged while the quiet period
// since lastEdit is still running.
func (a *App) SyncText(ctx context.Context, text string, lastEdit time.Time) (string, bool, error) {
	tasks, err := a.Store.ListAll(ctx, a.Config.Owner)
	if err != nil {
		return text, false, err
	}

	syncer := a.NewSyncer()
	syncer.RecordEdit(lastEdit)
	out, changed := syncer.Apply(text, tasks, a.Clock.Now())
	return out, changed, nil
}
