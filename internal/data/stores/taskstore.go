package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/internal/data/db"
	"github.com/hay-kot/tickdown/pkg/clock"
	"github.com/hay-kot/tickdown/pkg/randid"
)

// TaskStore implements task.Store and task.ExpiryStore using SQLite.
type TaskStore struct {
	db    *db.DB
	clock clock.Clock
}

var (
	_ task.Store       = (*TaskStore)(nil)
	_ task.ExpiryStore = (*TaskStore)(nil)
)

// NewTaskStore creates a new SQLite-backed task store. A nil clock uses
// wall-clock time for CreatedAt.
func NewTaskStore(db *db.DB, clk clock.Clock) *TaskStore {
	if clk == nil {
		clk = clock.Real{}
	}
	return &TaskStore{db: db, clock: clk}
}

// ListAll returns every task for owner, newest first.
func (s *TaskStore) ListAll(ctx context.Context, owner string) ([]task.Task, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.db.Queries().ListTasks(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return rowsToTasks(rows), nil
}

// ListActive returns tasks that have not been finalized.
func (s *TaskStore) ListActive(ctx context.Context, owner string) ([]task.Task, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.db.Queries().ListActiveTasks(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	return rowsToTasks(rows), nil
}

// ListCompleted returns finalized tasks, most recently completed first.
func (s *TaskStore) ListCompleted(ctx context.Context, owner string) ([]task.Task, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.db.Queries().ListCompletedTasks(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return rowsToTasks(rows), nil
}

// ListTimered returns tasks with a running timer, oldest check first.
func (s *TaskStore) ListTimered(ctx context.Context, owner string) ([]task.Task, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	rows, err := s.db.Queries().ListTimeredTasks(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list timered tasks: %w", err)
	}
	return rowsToTasks(rows), nil
}

// ListTimeredAll returns timered tasks across all owners.
func (s *TaskStore) ListTimeredAll(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.Queries().ListAllTimeredTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all timered tasks: %w", err)
	}
	return rowsToTasks(rows), nil
}

// Get returns a single task. Returns task.ErrNotFound when the task is
// missing or belongs to another owner.
func (s *TaskStore) Get(ctx context.Context, id, owner string) (task.Task, error) {
	if err := validateOwner(owner); err != nil {
		return task.Task{}, err
	}
	row, err := s.db.Queries().GetTask(ctx, id, owner)
	if err != nil {
		if IsNotFoundError(err) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return rowToTask(row), nil
}

// Create persists a new task with a generated ID.
func (s *TaskStore) Create(ctx context.Context, owner string, fields task.Fields) (task.Task, error) {
	if err := validateOwner(owner); err != nil {
		return task.Task{}, err
	}
	if err := fields.Validate(); err != nil {
		return task.Task{}, err
	}

	row, err := s.db.Queries().CreateTask(ctx, db.CreateTaskParams{
		ID:          randid.Generate(8),
		OwnerID:     owner,
		Text:        fields.Text,
		Completed:   fields.Completed,
		CheckedAt:   toNullTime(fields.CheckedAt),
		CompletedAt: toNullTime(fields.CompletedAt),
		CreatedAt:   s.clock.Now().UnixNano(),
	})
	if err != nil {
		if isConstraintError(err) {
			return task.Task{}, fmt.Errorf("%w: %w", task.ErrInvalid, err)
		}
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	return rowToTask(row), nil
}

// Update applies patch in a single statement so concurrent writers never
// observe a half-applied change.
func (s *TaskStore) Update(ctx context.Context, id, owner string, patch task.Patch) (task.Task, error) {
	if err := validateOwner(owner); err != nil {
		return task.Task{}, err
	}
	if err := patch.Validate(); err != nil {
		return task.Task{}, err
	}
	if patch.IsZero() {
		return s.Get(ctx, id, owner)
	}

	params := db.UpdateTaskParams{
		CheckedAtOp:   int64(patch.CheckedAt.Op),
		CheckedAt:     unixNano(patch.CheckedAt.Time),
		CompletedAtOp: int64(patch.CompletedAt.Op),
		CompletedAt:   unixNano(patch.CompletedAt.Time),
		ID:            id,
		OwnerID:       owner,
	}
	if patch.Text != nil {
		params.SetText = true
		params.Text = *patch.Text
	}
	if patch.Completed != nil {
		params.SetCompleted = true
		params.Completed = *patch.Completed
	}

	row, err := s.db.Queries().UpdateTask(ctx, params)
	if err != nil {
		switch {
		case IsNotFoundError(err):
			return task.Task{}, task.ErrNotFound
		case isConstraintError(err):
			return task.Task{}, fmt.Errorf("%w: %w", task.ErrInvalid, err)
		}
		return task.Task{}, fmt.Errorf("update task: %w", err)
	}
	return rowToTask(row), nil
}

// Expire finalizes a timered task whose window closed at or before cutoff.
// The guard runs inside the UPDATE, so an uncheck racing the sweep wins
// cleanly and ok is false.
func (s *TaskStore) Expire(ctx context.Context, id, owner string, cutoff, now time.Time) (task.Task, bool, error) {
	row, err := s.db.Queries().ExpireTask(ctx, db.ExpireTaskParams{
		CompletedAt: now.UnixNano(),
		ID:          id,
		OwnerID:     owner,
		Cutoff:      cutoff.UnixNano(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.Task{}, false, nil
		}
		return task.Task{}, false, fmt.Errorf("expire task: %w", err)
	}
	return rowToTask(row), true, nil
}

// Delete removes a task and reports whether a row was removed.
func (s *TaskStore) Delete(ctx context.Context, id, owner string) (bool, error) {
	if err := validateOwner(owner); err != nil {
		return false, err
	}
	n, err := s.db.Queries().DeleteTask(ctx, id, owner)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return n > 0, nil
}

func validateOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("%w: owner is required", task.ErrInvalid)
	}
	return nil
}

func rowsToTasks(rows []db.Task) []task.Task {
	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToTask(row))
	}
	return tasks
}

func rowToTask(row db.Task) task.Task {
	return task.Task{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Text:        row.Text,
		Completed:   row.Completed,
		CheckedAt:   fromNullTime(row.CheckedAt),
		CompletedAt: fromNullTime(row.CompletedAt),
		CreatedAt:   time.Unix(0, row.CreatedAt),
	}
}

func toNullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromNullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64)
	return &t
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
