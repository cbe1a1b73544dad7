package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tickdown/internal/core/task"
)

type fakeTimerLister struct {
	tasks []task.Task
	err   error
}

func (f *fakeTimerLister) ListTimeredAll(context.Context) ([]task.Task, error) {
	return f.tasks, f.err
}

func timeredAt(id string, checked time.Time) task.Task {
	return task.Task{ID: id, OwnerID: "alice", Text: id, Completed: true, CheckedAt: &checked}
}

func TestTimersCheck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	nowFn := func() time.Time { return now }
	timer := task.Timer{Duration: time.Hour}
	grace := time.Minute

	lister := &fakeTimerLister{tasks: []task.Task{
		timeredAt("fresh", now.Add(-10*time.Minute)),
		// Inside the grace window: the sweep simply has not run yet.
		timeredAt("just-due", now.Add(-time.Hour-30*time.Second)),
		timeredAt("stale", now.Add(-3*time.Hour)),
	}}

	t.Run("reports overdue as fixable", func(t *testing.T) {
		result := NewTimersCheck(lister, timer, grace, nowFn, nil).Run(context.Background())

		assert.Equal(t, "Timers", result.Name)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "2 timered tasks", result.Items[0].Detail)
		assert.Equal(t, StatusWarn, result.Items[1].Status)
		assert.True(t, result.Items[1].Fixable)
		assert.Contains(t, result.Items[1].Detail, "1 tasks")
	})

	t.Run("autofix runs the sweep", func(t *testing.T) {
		called := false
		fix := func(context.Context) error {
			called = true
			return nil
		}

		result := NewTimersCheck(lister, timer, grace, nowFn, fix).Run(context.Background())

		assert.True(t, called)
		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusPass, result.Items[1].Status)
	})

	t.Run("autofix failure", func(t *testing.T) {
		fix := func(context.Context) error { return errors.New("db locked") }

		result := NewTimersCheck(lister, timer, grace, nowFn, fix).Run(context.Background())

		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusFail, result.Items[1].Status)
		assert.Contains(t, result.Items[1].Detail, "db locked")
	})

	t.Run("nothing overdue", func(t *testing.T) {
		healthy := &fakeTimerLister{tasks: lister.tasks[:2]}

		result := NewTimersCheck(healthy, timer, grace, nowFn, nil).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
	})

	t.Run("list error", func(t *testing.T) {
		broken := &fakeTimerLister{err: errors.New("boom")}

		result := NewTimersCheck(broken, timer, grace, nowFn, nil).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
	})
}
