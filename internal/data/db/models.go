package db

import "database/sql"

// Task is a row of the tasks table. Timestamps are Unix nanoseconds.
type Task struct {
	ID          string
	OwnerID     string
	Text        string
	Completed   bool
	CheckedAt   sql.NullInt64
	CompletedAt sql.NullInt64
	CreatedAt   int64
}
