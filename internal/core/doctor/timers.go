package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/tickdown/internal/core/task"
)

// TimerLister lists timered tasks across all owners.
type TimerLister interface {
	ListTimeredAll(ctx context.Context) ([]task.Task, error)
}

// TimersCheck reports timered tasks that should already have been expired,
// which means no sweep has been running.
type TimersCheck struct {
	store TimerLister
	timer task.Timer
	grace time.Duration
	now   func() time.Time
	fix   func(ctx context.Context) error
}

// NewTimersCheck creates a timers check. A task counts as overdue once its
// window has been closed for longer than grace. When fix is non-nil it is
// run to expire overdue tasks.
func NewTimersCheck(store TimerLister, timer task.Timer, grace time.Duration, now func() time.Time, fix func(ctx context.Context) error) *TimersCheck {
	return &TimersCheck{store: store, timer: timer, grace: grace, now: now, fix: fix}
}

func (c *TimersCheck) Name() string {
	return "Timers"
}

func (c *TimersCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	tasks, err := c.store.ListTimeredAll(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{Label: "timered tasks", Status: StatusFail, Detail: err.Error()})
		return result
	}

	now := c.now()
	overdue := 0
	for _, t := range tasks {
		if c.timer.Expired(t, now.Add(-c.grace)) {
			overdue++
		}
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "running",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d timered tasks", len(tasks)-overdue),
	})

	if overdue == 0 {
		return result
	}

	if c.fix == nil {
		result.Items = append(result.Items, CheckItem{
			Label:   "overdue",
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("%d tasks past their window; is the sweep running?", overdue),
			Fixable: true,
		})
		return result
	}

	if err := c.fix(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "overdue", Status: StatusFail, Detail: fmt.Sprintf("sweep failed: %v", err)})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "overdue",
		Status: StatusPass,
		Detail: fmt.Sprintf("expired %d overdue tasks", overdue),
	})
	return result
}
