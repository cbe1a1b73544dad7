package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the task SQL. Every owner-facing statement filters on
// owner_id so a caller can never read or write another owner's rows.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const taskColumns = `id, owner_id, text, completed, checked_at, completed_at, created_at`

const timeredPredicate = `completed = 1 AND checked_at IS NOT NULL AND completed_at IS NULL`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Text, &t.Completed, &t.CheckedAt, &t.CompletedAt, &t.CreatedAt)
	return t, err
}

func (q *Queries) listTasks(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTask = `
INSERT INTO tasks (id, owner_id, text, completed, checked_at, completed_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + taskColumns

// CreateTaskParams are the values for a new row.
type CreateTaskParams struct {
	ID          string
	OwnerID     string
	Text        string
	Completed   bool
	CheckedAt   sql.NullInt64
	CompletedAt sql.NullInt64
	CreatedAt   int64
}

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (Task, error) {
	row := q.db.QueryRowContext(ctx, createTask,
		arg.ID, arg.OwnerID, arg.Text, arg.Completed, arg.CheckedAt, arg.CompletedAt, arg.CreatedAt,
	)
	return scanTask(row)
}

const getTask = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`

func (q *Queries) GetTask(ctx context.Context, id, ownerID string) (Task, error) {
	return scanTask(q.db.QueryRowContext(ctx, getTask, id, ownerID))
}

const listTasks = `SELECT ` + taskColumns + ` FROM tasks
WHERE owner_id = ?
ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListTasks(ctx context.Context, ownerID string) ([]Task, error) {
	return q.listTasks(ctx, listTasks, ownerID)
}

const listActiveTasks = `SELECT ` + taskColumns + ` FROM tasks
WHERE owner_id = ? AND completed_at IS NULL
ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListActiveTasks(ctx context.Context, ownerID string) ([]Task, error) {
	return q.listTasks(ctx, listActiveTasks, ownerID)
}

const listCompletedTasks = `SELECT ` + taskColumns + ` FROM tasks
WHERE owner_id = ? AND completed_at IS NOT NULL
ORDER BY completed_at DESC, rowid DESC`

func (q *Queries) ListCompletedTasks(ctx context.Context, ownerID string) ([]Task, error) {
	return q.listTasks(ctx, listCompletedTasks, ownerID)
}

const listTimeredTasks = `SELECT ` + taskColumns + ` FROM tasks
WHERE owner_id = ? AND ` + timeredPredicate + `
ORDER BY checked_at ASC, rowid ASC`

func (q *Queries) ListTimeredTasks(ctx context.Context, ownerID string) ([]Task, error) {
	return q.listTasks(ctx, listTimeredTasks, ownerID)
}

const listAllTimeredTasks = `SELECT ` + taskColumns + ` FROM tasks
WHERE ` + timeredPredicate + `
ORDER BY checked_at ASC, rowid ASC`

// ListAllTimeredTasks is the only statement without an owner filter. It is
// reserved for the background sweep.
func (q *Queries) ListAllTimeredTasks(ctx context.Context) ([]Task, error) {
	return q.listTasks(ctx, listAllTimeredTasks)
}

// Time patch operations understood by UpdateTask.
const (
	TimeKeep      int64 = 0
	TimeSet       int64 = 1
	TimeClear     int64 = 2
	TimeSetIfNull int64 = 3
)

const updateTask = `
UPDATE tasks SET
    text         = CASE WHEN ?1 THEN ?2 ELSE text END,
    completed    = CASE WHEN ?3 THEN ?4 ELSE completed END,
    checked_at   = CASE ?5 WHEN 1 THEN ?6 WHEN 2 THEN NULL WHEN 3 THEN COALESCE(checked_at, ?6) ELSE checked_at END,
    completed_at = CASE ?7 WHEN 1 THEN ?8 WHEN 2 THEN NULL WHEN 3 THEN COALESCE(completed_at, ?8) ELSE completed_at END
WHERE id = ?9 AND owner_id = ?10
RETURNING ` + taskColumns

// UpdateTaskParams describes a partial update. Set* flags and *Op values
// select which columns change; everything else keeps its current value.
type UpdateTaskParams struct {
	SetText       bool
	Text          string
	SetCompleted  bool
	Completed     bool
	CheckedAtOp   int64
	CheckedAt     int64
	CompletedAtOp int64
	CompletedAt   int64
	ID            string
	OwnerID       string
}

// UpdateTask applies the patch in a single statement and returns the new
// row. Returns sql.ErrNoRows when no row matches id and owner.
func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (Task, error) {
	row := q.db.QueryRowContext(ctx, updateTask,
		arg.SetText, arg.Text,
		arg.SetCompleted, arg.Completed,
		arg.CheckedAtOp, arg.CheckedAt,
		arg.CompletedAtOp, arg.CompletedAt,
		arg.ID, arg.OwnerID,
	)
	return scanTask(row)
}

const expireTask = `
UPDATE tasks SET completed_at = ?1
WHERE id = ?2 AND owner_id = ?3 AND ` + timeredPredicate + ` AND checked_at <= ?4
RETURNING ` + taskColumns

// ExpireTaskParams identifies a timered row and the expiry cutoff.
type ExpireTaskParams struct {
	CompletedAt int64
	ID          string
	OwnerID     string
	Cutoff      int64
}

// ExpireTask finalizes a row only while it is still timered and its window
// has elapsed. Returns sql.ErrNoRows when the row no longer qualifies.
func (q *Queries) ExpireTask(ctx context.Context, arg ExpireTaskParams) (Task, error) {
	row := q.db.QueryRowContext(ctx, expireTask, arg.CompletedAt, arg.ID, arg.OwnerID, arg.Cutoff)
	return scanTask(row)
}

const deleteTask = `DELETE FROM tasks WHERE id = ? AND owner_id = ?`

// DeleteTask removes a row and returns the number of rows affected.
func (q *Queries) DeleteTask(ctx context.Context, id, ownerID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTask, id, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
