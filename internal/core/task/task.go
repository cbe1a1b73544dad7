// Package task defines the persisted task model, its derived timer state
// machine, and the persistence contract the engines depend on.
package task

import "time"

// Task is a single checkbox task owned by one user.
//
// The lifecycle is encoded across Completed, CheckedAt, and CompletedAt for
// schema simplicity. Code outside this package should branch on State()
// rather than on the raw fields.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CheckedAt   *time.Time `json:"checked_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// State is the derived lifecycle state of a task.
type State string

const (
	// StateActive is an unchecked task with no timer.
	StateActive State = "active"
	// StateTimered is a checked task whose auto-completion window is open.
	StateTimered State = "timered"
	// StateCompleted is a finalized task.
	StateCompleted State = "completed"
)

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	switch s {
	case StateActive, StateTimered, StateCompleted:
		return true
	}
	return false
}

// State derives the lifecycle state from the stored fields.
func (t Task) State() State {
	switch {
	case t.CompletedAt != nil:
		return StateCompleted
	case t.Completed && t.CheckedAt != nil:
		return StateTimered
	default:
		return StateActive
	}
}

// IsChecked reports whether the task should render as a checked box, which
// is true for both Timered and Completed tasks.
func (t Task) IsChecked() bool {
	s := t.State()
	return s == StateTimered || s == StateCompleted
}

// Fields holds the caller-supplied values for a new task. ID and CreatedAt
// are assigned by the store.
type Fields struct {
	Text        string
	Completed   bool
	CheckedAt   *time.Time
	CompletedAt *time.Time
}

// Patch is a partial update. Nil pointers and zero TimeFields leave the
// column untouched.
type Patch struct {
	Text        *string
	Completed   *bool
	CheckedAt   TimeField
	CompletedAt TimeField
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Text == nil && p.Completed == nil && p.CheckedAt.IsKeep() && p.CompletedAt.IsKeep()
}

// TimeOp is the operation a TimeField applies to a nullable timestamp column.
type TimeOp int

const (
	TimeKeep TimeOp = iota
	TimeSet
	TimeClear
	// TimeSetIfNull sets the column only when it is currently NULL.
	TimeSetIfNull
)

// TimeField patches a nullable timestamp.
type TimeField struct {
	Op   TimeOp
	Time time.Time
}

// SetTime returns a TimeField that sets the column to t.
func SetTime(t time.Time) TimeField { return TimeField{Op: TimeSet, Time: t} }

// ClearTime returns a TimeField that sets the column to NULL.
func ClearTime() TimeField { return TimeField{Op: TimeClear} }

// SetTimeIfNull returns a TimeField that fills the column with t only when
// it has no value yet.
func SetTimeIfNull(t time.Time) TimeField { return TimeField{Op: TimeSetIfNull, Time: t} }

// IsKeep reports whether the field leaves the column untouched.
func (f TimeField) IsKeep() bool { return f.Op == TimeKeep }

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
