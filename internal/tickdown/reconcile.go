package tickdown

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/logging"
	"github.com/hay-kot/tickdown/internal/core/markdown"
	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/pkg/clock"
)

// ReconcileResult describes one reconciliation pass.
type ReconcileResult struct {
	// Tasks holds one task per distinct checkbox line, in document order.
	Tasks   []task.Task
	Created int
	Updated int
}

// Mutations reports how many store writes the pass issued.
func (r ReconcileResult) Mutations() int { return r.Created + r.Updated }

// Reconciler brings an owner's stored tasks in line with the checkbox lines
// of a markdown document. It holds no state between calls.
type Reconciler struct {
	store      task.Store
	clock      clock.Clock
	bus        *eventbus.EventBus
	newMatcher MatcherFunc
	log        zerolog.Logger
}

// NewReconciler creates a Reconciler that matches lines by exact text.
func NewReconciler(store task.Store, clk clock.Clock, bus *eventbus.EventBus, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:      store,
		clock:      clk,
		bus:        bus,
		newMatcher: NewTextIndex,
		log:        log.With().Str("component", "reconciler").Logger(),
	}
}

// Reconcile parses text and creates or updates tasks so each checkbox line
// has a stored counterpart with the same checked state. Tasks missing from
// the document are left alone. Running it twice over unchanged input issues
// no writes on the second call.
//
// Every line is validated before the first write; an invalid line fails the
// whole pass with task.ErrInvalid.
func (r *Reconciler) Reconcile(ctx context.Context, owner, text string) (ReconcileResult, error) {
	ctx = logging.WithOwner(ctx, owner)

	parsed := markdown.Tasks(text)
	if err := validateLines(parsed); err != nil {
		return ReconcileResult{}, err
	}
	lines := uniqueLines(parsed)

	existing, err := r.store.ListAll(ctx, owner)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("load tasks: %w", err)
	}

	var (
		now    = r.clock.Now()
		index  = r.newMatcher(existing)
		result = ReconcileResult{Tasks: make([]task.Task, 0, len(lines))}
	)

	for _, line := range lines {
		current, ok := index.Lookup(line.Text)
		if !ok {
			created, err := r.store.Create(ctx, owner, newTaskFields(line, now))
			if err != nil {
				return result, fmt.Errorf("create task %q: %w", line.Text, err)
			}
			index.Put(created)
			result.Tasks = append(result.Tasks, created)
			result.Created++
			r.bus.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: &created})
			continue
		}

		if current.IsChecked() == line.Completed {
			result.Tasks = append(result.Tasks, current)
			continue
		}

		updated, err := r.store.Update(ctx, current.ID, owner, togglePatch(line.Completed, now))
		if err != nil {
			return result, fmt.Errorf("update task %s: %w", current.ID, err)
		}
		index.Put(updated)
		result.Tasks = append(result.Tasks, updated)
		result.Updated++
		r.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: &updated, Previous: current.State()})
	}

	if result.Mutations() > 0 {
		r.log.Debug().Ctx(ctx).
			Int("lines", len(lines)).
			Int("created", result.Created).
			Int("updated", result.Updated).
			Msg("reconciled document")
	}

	return result, nil
}

// togglePatch moves a task into the checked or unchecked state. Unchecking
// also clears any completion so the task re-enters Active.
func togglePatch(checked bool, now time.Time) task.Patch {
	if checked {
		return task.Patch{
			Completed: task.Ptr(true),
			CheckedAt: task.SetTime(now),
		}
	}
	return task.Patch{
		Completed:   task.Ptr(false),
		CheckedAt:   task.ClearTime(),
		CompletedAt: task.ClearTime(),
	}
}

func newTaskFields(line markdown.Line, now time.Time) task.Fields {
	fields := task.Fields{Text: line.Text, Completed: line.Completed}
	if line.Completed {
		fields.CheckedAt = &now
	}
	return fields
}

// uniqueLines keeps the first occurrence of each text.
func uniqueLines(lines []markdown.Line) []markdown.Line {
	seen := make(map[string]bool, len(lines))
	out := make([]markdown.Line, 0, len(lines))
	for _, l := range lines {
		if seen[l.Text] {
			continue
		}
		seen[l.Text] = true
		out = append(out, l)
	}
	return out
}

// validateLines reports errors by position among the document's checkbox
// lines, before duplicates are folded.
func validateLines(lines []markdown.Line) error {
	var errs criterio.FieldErrorsBuilder
	for i, l := range lines {
		if err := task.ValidateText(l.Text); err != nil {
			errs = errs.Append(fmt.Sprintf("lines[%d]", i), err)
		}
	}
	if err := errs.ToError(); err != nil {
		return fmt.Errorf("%w: %w", task.ErrInvalid, err)
	}
	return nil
}
