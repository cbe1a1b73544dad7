package tickdown

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tickdown/internal/core/eventbus/testbus"
	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/internal/data/db"
	"github.com/hay-kot/tickdown/internal/data/stores"
	"github.com/hay-kot/tickdown/pkg/clock"
)

const owner = "alice"

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	store *stores.TaskStore
	clock *clock.Fake
	bus   *testbus.Bus
	timer task.Timer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	clk := clock.NewFake(epoch)
	return &env{
		store: stores.NewTaskStore(database, clk),
		clock: clk,
		bus:   testbus.New(t),
		timer: task.DefaultTimer(),
	}
}

func (e *env) reconciler() *Reconciler {
	return NewReconciler(e.store, e.clock, e.bus.EventBus, zerolog.Nop())
}

func (e *env) service() *TaskService {
	return NewTaskService(e.store, e.timer, e.clock, e.bus.EventBus, zerolog.Nop())
}

func (e *env) expiry() *Expiry {
	return NewExpiry(e.store, e.timer, e.clock, e.bus.EventBus, zerolog.Nop())
}

func (e *env) all(t *testing.T) []task.Task {
	t.Helper()
	tasks, err := e.store.ListAll(context.Background(), owner)
	require.NoError(t, err)
	return tasks
}

func byText(tasks []task.Task) map[string]task.Task {
	out := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		out[t.Text] = t
	}
	return out
}
