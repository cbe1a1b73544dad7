package tickdown

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/logging"
	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/pkg/clock"
)

// Filter selects a subset of an owner's tasks.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterTimered   Filter = "timered"
)

// IsValid reports whether f is a known filter.
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted, FilterTimered:
		return true
	}
	return false
}

// Stats summarizes an owner's tasks.
type Stats struct {
	Active         int     `json:"active"`
	Timered        int     `json:"timered"`
	Completed      int     `json:"completed"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completion_rate"`
}

// TimerStatus is a timered task with its current progress.
type TimerStatus struct {
	Task      task.Task     `json:"task"`
	Progress  float64       `json:"progress"`
	Remaining time.Duration `json:"remaining"`
}

// TaskService handles explicit, id-addressed task actions.
type TaskService struct {
	store task.Store
	timer task.Timer
	clock clock.Clock
	bus   *eventbus.EventBus
	log   zerolog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(store task.Store, timer task.Timer, clk clock.Clock, bus *eventbus.EventBus, log zerolog.Logger) *TaskService {
	return &TaskService{
		store: store,
		timer: timer,
		clock: clk,
		bus:   bus,
		log:   log.With().Str("component", "task-service").Logger(),
	}
}

// Add creates an Active task from free text.
func (s *TaskService) Add(ctx context.Context, owner, text string) (task.Task, error) {
	created, err := s.store.Create(ctx, owner, task.Fields{Text: strings.TrimSpace(text)})
	if err != nil {
		return task.Task{}, fmt.Errorf("add task: %w", err)
	}

	s.log.Debug().Ctx(logging.WithOwner(ctx, owner)).Str("task_id", created.ID).Msg("task added")
	s.bus.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: &created})
	return created, nil
}

// Get returns a single task.
func (s *TaskService) Get(ctx context.Context, owner, id string) (task.Task, error) {
	return s.store.Get(ctx, id, owner)
}

// List returns the owner's tasks matching f.
func (s *TaskService) List(ctx context.Context, owner string, f Filter) ([]task.Task, error) {
	switch f {
	case FilterAll, "":
		return s.store.ListAll(ctx, owner)
	case FilterActive:
		return s.store.ListActive(ctx, owner)
	case FilterCompleted:
		return s.store.ListCompleted(ctx, owner)
	case FilterTimered:
		return s.store.ListTimered(ctx, owner)
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", task.ErrInvalid, f)
	}
}

// Check starts a task's timer. Checking a task that is already checked
// leaves its window untouched.
func (s *TaskService) Check(ctx context.Context, owner, id string) (task.Task, error) {
	current, err := s.store.Get(ctx, id, owner)
	if err != nil {
		return task.Task{}, err
	}
	if current.IsChecked() {
		return current, nil
	}

	updated, err := s.store.Update(ctx, id, owner, task.Patch{
		Completed: task.Ptr(true),
		CheckedAt: task.SetTimeIfNull(s.clock.Now()),
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("check task: %w", err)
	}

	s.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: &updated, Previous: current.State()})
	return updated, nil
}

// Uncheck returns a task to Active, cancelling its timer or completion.
func (s *TaskService) Uncheck(ctx context.Context, owner, id string) (task.Task, error) {
	current, err := s.store.Get(ctx, id, owner)
	if err != nil {
		return task.Task{}, err
	}
	if !current.IsChecked() {
		return current, nil
	}

	updated, err := s.store.Update(ctx, id, owner, togglePatch(false, s.clock.Now()))
	if err != nil {
		return task.Task{}, fmt.Errorf("uncheck task: %w", err)
	}

	s.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: &updated, Previous: current.State()})
	return updated, nil
}

// Complete finalizes a task immediately, regardless of timer progress. An
// Active task is checked and completed in the same write.
func (s *TaskService) Complete(ctx context.Context, owner, id string) (task.Task, error) {
	now := s.clock.Now()
	updated, err := s.store.Update(ctx, id, owner, task.Patch{
		Completed:   task.Ptr(true),
		CheckedAt:   task.SetTimeIfNull(now),
		CompletedAt: task.SetTime(now),
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("complete task: %w", err)
	}

	s.bus.PublishTaskCompleted(eventbus.TaskCompletedPayload{Task: &updated, Source: eventbus.SourceExplicit})
	return updated, nil
}

// Delete removes a task. Returns task.ErrNotFound if nothing was removed.
func (s *TaskService) Delete(ctx context.Context, owner, id string) error {
	removed, err := s.store.Delete(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if !removed {
		return task.ErrNotFound
	}

	s.bus.PublishTaskDeleted(eventbus.TaskDeletedPayload{TaskID: id, OwnerID: owner})
	return nil
}

// Stats counts the owner's tasks by state.
func (s *TaskService) Stats(ctx context.Context, owner string) (Stats, error) {
	all, err := s.store.ListAll(ctx, owner)
	if err != nil {
		return Stats{}, fmt.Errorf("load tasks: %w", err)
	}

	var st Stats
	for _, t := range all {
		switch t.State() {
		case task.StateCompleted:
			st.Completed++
		case task.StateTimered:
			st.Timered++
			st.Active++
		default:
			st.Active++
		}
	}

	st.Total = len(all)
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) / float64(st.Total) * 100
	}
	return st, nil
}

// Timers returns progress for each running timer, oldest first.
func (s *TaskService) Timers(ctx context.Context, owner string) ([]TimerStatus, error) {
	timered, err := s.store.ListTimered(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load timered tasks: %w", err)
	}

	now := s.clock.Now()
	out := make([]TimerStatus, 0, len(timered))
	for _, t := range timered {
		progress, ok := s.timer.Progress(t, now)
		if !ok {
			continue
		}
		remaining, _ := s.timer.Remaining(t, now)
		out = append(out, TimerStatus{Task: t, Progress: progress, Remaining: remaining})
	}
	return out, nil
}
