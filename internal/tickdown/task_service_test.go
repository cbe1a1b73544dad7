package tickdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/task"
)

func TestTaskService_Add(t *testing.T) {
	e := newEnv(t)
	svc := e.service()
	ctx := context.Background()

	created, err := svc.Add(ctx, owner, "  call mom  ")
	require.NoError(t, err)
	assert.Equal(t, "call mom", created.Text)
	assert.Equal(t, task.StateActive, created.State())

	_, err = svc.Add(ctx, owner, "   ")
	require.ErrorIs(t, err, task.ErrInvalid)

	e.bus.AssertPublished(t, eventbus.EventTaskCreated)
}

func TestTaskService_CheckUncheck(t *testing.T) {
	e := newEnv(t)
	svc := e.service()
	ctx := context.Background()

	created, err := svc.Add(ctx, owner, "read")
	require.NoError(t, err)

	checked, err := svc.Check(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StateTimered, checked.State())
	require.NotNil(t, checked.CheckedAt)
	assert.True(t, checked.CheckedAt.Equal(epoch))

	// Checking again must not restart the window.
	e.clock.Advance(10 * time.Minute)
	again, err := svc.Check(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.True(t, again.CheckedAt.Equal(epoch))

	unchecked, err := svc.Uncheck(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StateActive, unchecked.State())
	assert.Nil(t, unchecked.CheckedAt)

	_, err = svc.Check(ctx, "bob", created.ID)
	require.ErrorIs(t, err, task.ErrNotFound)
}

func TestTaskService_Complete(t *testing.T) {
	e := newEnv(t)
	svc := e.service()
	ctx := context.Background()

	t.Run("from active", func(t *testing.T) {
		created, err := svc.Add(ctx, owner, "active one")
		require.NoError(t, err)

		done, err := svc.Complete(ctx, owner, created.ID)
		require.NoError(t, err)
		assert.Equal(t, task.StateCompleted, done.State())
		require.NotNil(t, done.CheckedAt)
		require.NotNil(t, done.CompletedAt)
		assert.True(t, done.CheckedAt.Equal(*done.CompletedAt))
	})

	t.Run("from timered keeps check time", func(t *testing.T) {
		created, err := svc.Add(ctx, owner, "timered one")
		require.NoError(t, err)
		checked, err := svc.Check(ctx, owner, created.ID)
		require.NoError(t, err)

		now := e.clock.Advance(5 * time.Minute)
		done, err := svc.Complete(ctx, owner, created.ID)
		require.NoError(t, err)
		assert.True(t, done.CheckedAt.Equal(*checked.CheckedAt))
		assert.True(t, done.CompletedAt.Equal(now))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.Complete(ctx, owner, "nope")
		require.ErrorIs(t, err, task.ErrNotFound)
	})

	e.bus.AssertPublished(t, eventbus.EventTaskCompleted)
}

func TestTaskService_Delete(t *testing.T) {
	e := newEnv(t)
	svc := e.service()
	ctx := context.Background()

	created, err := svc.Add(ctx, owner, "temp")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "bob", created.ID), task.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, owner, created.ID), task.ErrNotFound)

	e.bus.AssertPublished(t, eventbus.EventTaskDeleted)
}

func TestTaskService_ListStatsTimers(t *testing.T) {
	e := newEnv(t)
	svc := e.service()
	ctx := context.Background()

	active, err := svc.Add(ctx, owner, "active")
	require.NoError(t, err)
	timered, err := svc.Add(ctx, owner, "timered")
	require.NoError(t, err)
	done, err := svc.Add(ctx, owner, "done")
	require.NoError(t, err)

	_, err = svc.Check(ctx, owner, timered.ID)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, owner, done.ID)
	require.NoError(t, err)

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{done.ID, timered.ID, active.ID}},
		{FilterActive, []string{timered.ID, active.ID}},
		{FilterTimered, []string{timered.ID}},
		{FilterCompleted, []string{done.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got, err := svc.List(ctx, owner, tt.filter)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, g := range got {
				ids[i] = g.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err = svc.List(ctx, owner, Filter("bogus"))
	require.ErrorIs(t, err, task.ErrInvalid)

	stats, err := svc.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Timered)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 3, stats.Total)
	assert.InDelta(t, 33.33, stats.CompletionRate, 0.01)

	e.clock.Advance(30 * time.Minute)
	timers, err := svc.Timers(ctx, owner)
	require.NoError(t, err)
	require.Len(t, timers, 1)
	assert.Equal(t, timered.ID, timers[0].Task.ID)
	assert.InDelta(t, 50.0, timers[0].Progress, 0.001)
	assert.Equal(t, 30*time.Minute, timers[0].Remaining)
}
