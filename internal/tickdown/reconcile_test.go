package tickdown

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/task"
)

func TestReconcile_CreatesFromDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc := "# Groceries\n- [ ] buy milk\n  - [x] buy eggs\nsome notes\n"
	res, err := e.reconciler().Reconcile(ctx, owner, doc)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Updated)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, "buy milk", res.Tasks[0].Text)
	assert.Equal(t, "buy eggs", res.Tasks[1].Text)

	tasks := byText(e.all(t))
	assert.Equal(t, task.StateActive, tasks["buy milk"].State())

	eggs := tasks["buy eggs"]
	assert.Equal(t, task.StateTimered, eggs.State())
	require.NotNil(t, eggs.CheckedAt)
	assert.True(t, eggs.CheckedAt.Equal(epoch))

	e.bus.AssertPublished(t, eventbus.EventTaskCreated)
}

func TestReconcile_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.reconciler()

	doc := "- [ ] one\n- [x] two\n"
	_, err := r.Reconcile(ctx, owner, doc)
	require.NoError(t, err)

	before := e.all(t)

	e.clock.Advance(5 * time.Minute)
	res, err := r.Reconcile(ctx, owner, doc)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Mutations())
	assert.Equal(t, before, e.all(t))
}

func TestReconcile_GrowingDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.reconciler()

	_, err := r.Reconcile(ctx, owner, "- [ ] one\n")
	require.NoError(t, err)

	res, err := r.Reconcile(ctx, owner, "- [ ] one\n- [ ] two\n")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Len(t, e.all(t), 2)
}

func TestReconcile_RemovedLinesAreKept(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.reconciler()

	_, err := r.Reconcile(ctx, owner, "- [ ] one\n- [ ] two\n")
	require.NoError(t, err)

	res, err := r.Reconcile(ctx, owner, "- [ ] one\n")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Mutations())
	assert.Len(t, e.all(t), 2)
}

func TestReconcile_ToggleState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.reconciler()

	_, err := r.Reconcile(ctx, owner, "- [ ] walk dog\n")
	require.NoError(t, err)

	checkedAt := e.clock.Advance(10 * time.Minute)
	res, err := r.Reconcile(ctx, owner, "- [x] walk dog\n")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	dog := byText(e.all(t))["walk dog"]
	assert.Equal(t, task.StateTimered, dog.State())
	require.NotNil(t, dog.CheckedAt)
	assert.True(t, dog.CheckedAt.Equal(checkedAt))

	e.clock.Advance(time.Minute)
	res, err = r.Reconcile(ctx, owner, "- [ ] walk dog\n")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	dog = byText(e.all(t))["walk dog"]
	assert.Equal(t, task.StateActive, dog.State())
	assert.False(t, dog.Completed)
	assert.Nil(t, dog.CheckedAt)
	assert.Nil(t, dog.CompletedAt)

	e.bus.AssertPublished(t, eventbus.EventTaskUpdated)
}

func TestReconcile_UncheckClearsCompletion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.reconciler()

	res, err := r.Reconcile(ctx, owner, "- [x] file taxes\n")
	require.NoError(t, err)
	id := res.Tasks[0].ID

	_, err = e.service().Complete(ctx, owner, id)
	require.NoError(t, err)

	// A checked line over a completed task is already in agreement.
	res, err = r.Reconcile(ctx, owner, "- [x] file taxes\n")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Mutations())

	_, err = r.Reconcile(ctx, owner, "- [ ] file taxes\n")
	require.NoError(t, err)

	got, err := e.store.Get(ctx, id, owner)
	require.NoError(t, err)
	assert.Equal(t, task.StateActive, got.State())
	assert.Nil(t, got.CompletedAt)
}

func TestReconcile_DuplicateLines(t *testing.T) {
	e := newEnv(t)

	res, err := e.reconciler().Reconcile(context.Background(), owner, "- [ ] same\n- [x] same\n")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	tasks := e.all(t)
	require.Len(t, tasks, 1)
	// The first occurrence decides the state.
	assert.Equal(t, task.StateActive, tasks[0].State())
}

func TestReconcile_InvalidLineWritesNothing(t *testing.T) {
	e := newEnv(t)

	doc := "- [ ] fine\n- [ ] " + strings.Repeat("x", task.MaxTextLength+1) + "\n"
	_, err := e.reconciler().Reconcile(context.Background(), owner, doc)

	require.ErrorIs(t, err, task.ErrInvalid)
	assert.Contains(t, err.Error(), "lines[1]")
	assert.Empty(t, e.all(t))
}

func TestReconcile_InvalidLineIndexCountsDuplicates(t *testing.T) {
	e := newEnv(t)

	doc := "- [ ] same\n- [ ] same\n- [ ] " + strings.Repeat("x", task.MaxTextLength+1) + "\n"
	_, err := e.reconciler().Reconcile(context.Background(), owner, doc)

	require.ErrorIs(t, err, task.ErrInvalid)
	assert.Contains(t, err.Error(), "lines[2]")
	assert.NotContains(t, err.Error(), "lines[1]")
	assert.Empty(t, e.all(t))
}

func TestReconcile_LoneCarriageReturnSeparatesLines(t *testing.T) {
	e := newEnv(t)

	res, err := e.reconciler().Reconcile(context.Background(), owner, "- [ ] a\r- [x] b\n")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	tasks := byText(e.all(t))
	require.Len(t, tasks, 2)
	assert.Equal(t, task.StateActive, tasks["a"].State())
	assert.Equal(t, task.StateTimered, tasks["b"].State())
}

func TestReconcile_PrefersUnfinishedDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	old, err := e.store.Create(ctx, owner, task.Fields{Text: "stretch"})
	require.NoError(t, err)
	_, err = e.service().Complete(ctx, owner, old.ID)
	require.NoError(t, err)

	e.clock.Advance(time.Hour)
	fresh, err := e.store.Create(ctx, owner, task.Fields{Text: "stretch"})
	require.NoError(t, err)

	res, err := e.reconciler().Reconcile(ctx, owner, "- [x] stretch\n")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, fresh.ID, res.Tasks[0].ID)
	assert.Equal(t, task.StateTimered, res.Tasks[0].State())
}

func TestReconcile_OwnerIsolation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.reconciler()

	_, err := r.Reconcile(ctx, "bob", "- [x] shared\n")
	require.NoError(t, err)

	res, err := r.Reconcile(ctx, owner, "- [ ] shared\n")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, task.StateActive, res.Tasks[0].State())
}
