package task

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a task does not exist for the given owner.
	ErrNotFound = errors.New("task not found")
	// ErrInvalid is returned when task fields fail validation.
	ErrInvalid = errors.New("invalid task")
)

// Store defines owner-scoped task persistence. Every method filters by owner
// at the query level; a task belonging to another owner behaves exactly
// like a missing one.
type Store interface {
	// ListAll returns every task for owner, newest first.
	ListAll(ctx context.Context, owner string) ([]Task, error)

	// ListActive returns tasks without a CompletedAt, newest first.
	ListActive(ctx context.Context, owner string) ([]Task, error)

	// ListCompleted returns finalized tasks, most recently completed first.
	ListCompleted(ctx context.Context, owner string) ([]Task, error)

	// ListTimered returns Timered tasks, oldest CheckedAt first.
	ListTimered(ctx context.Context, owner string) ([]Task, error)

	// Get returns a single task. Returns ErrNotFound if missing.
	Get(ctx context.Context, id, owner string) (Task, error)

	// Create persists a new task and assigns its ID and CreatedAt.
	Create(ctx context.Context, owner string, fields Fields) (Task, error)

	// Update applies a partial patch atomically and returns the new row.
	// Returns ErrNotFound if no task with id belongs to owner.
	Update(ctx context.Context, id, owner string, patch Patch) (Task, error)

	// Delete removes a task and reports whether a row was removed.
	Delete(ctx context.Context, id, owner string) (bool, error)
}

// ExpiryStore is the narrow surface used by the background sweep.
type ExpiryStore interface {
	// ListTimeredAll returns Timered tasks across every owner, oldest
	// CheckedAt first.
	ListTimeredAll(ctx context.Context) ([]Task, error)

	// Expire sets CompletedAt to now only if the task is still Timered and
	// was checked at or before cutoff. ok is false when the row no longer
	// qualifies, which is not an error.
	Expire(ctx context.Context, id, owner string, cutoff, now time.Time) (t Task, ok bool, err error)
}
