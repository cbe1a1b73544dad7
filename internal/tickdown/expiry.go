package tickdown

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tickdown/internal/core/eventbus"
	"github.com/hay-kot/tickdown/internal/core/logging"
	"github.com/hay-kot/tickdown/internal/core/task"
	"github.com/hay-kot/tickdown/pkg/clock"
)

// ExpiryStore is the store surface the expiry engine needs.
type ExpiryStore interface {
	task.ExpiryStore
	ListTimered(ctx context.Context, owner string) ([]task.Task, error)
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	Scanned   int
	Completed int
	Failed    int
}

// Expiry finalizes timered tasks whose window has elapsed.
type Expiry struct {
	store ExpiryStore
	timer task.Timer
	clock clock.Clock
	bus   *eventbus.EventBus
	log   zerolog.Logger
}

// NewExpiry creates an expiry engine.
func NewExpiry(store ExpiryStore, timer task.Timer, clk clock.Clock, bus *eventbus.EventBus, log zerolog.Logger) *Expiry {
	return &Expiry{
		store: store,
		timer: timer,
		clock: clk,
		bus:   bus,
		log:   log.With().Str("component", "expiry").Logger(),
	}
}

// Timer returns the timer the engine uses for expiry decisions.
func (e *Expiry) Timer() task.Timer { return e.timer }

// Sweep runs one pass over every owner's timered tasks.
func (e *Expiry) Sweep(ctx context.Context) (SweepResult, error) {
	tasks, err := e.store.ListTimeredAll(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list timered tasks: %w", err)
	}
	return e.expire(ctx, tasks), nil
}

// SweepOwner runs one pass over a single owner's timered tasks.
func (e *Expiry) SweepOwner(ctx context.Context, owner string) (SweepResult, error) {
	tasks, err := e.store.ListTimered(ctx, owner)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list timered tasks: %w", err)
	}
	return e.expire(logging.WithOwner(ctx, owner), tasks), nil
}

// SweepExpired runs Sweep and reports per-task failures as a single error
// after the pass has finished.
func (e *Expiry) SweepExpired(ctx context.Context) error {
	res, err := e.Sweep(ctx)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("sweep: %d of %d tasks failed to expire", res.Failed, res.Scanned)
	}
	return nil
}

// expire finalizes each expired task independently. A failure on one task
// is logged and counted; the pass continues with the rest.
func (e *Expiry) expire(ctx context.Context, tasks []task.Task) SweepResult {
	var (
		now    = e.clock.Now()
		cutoff = e.timer.Cutoff(now)
		res    = SweepResult{Scanned: len(tasks)}
	)

	for _, t := range tasks {
		if !e.timer.Expired(t, now) {
			continue
		}

		done, ok, err := e.store.Expire(ctx, t.ID, t.OwnerID, cutoff, now)
		if err != nil {
			res.Failed++
			e.log.Warn().Ctx(ctx).Err(err).
				Str("task_id", t.ID).
				Str("task_owner", t.OwnerID).
				Msg("failed to expire task")
			continue
		}
		if !ok {
			// Unchecked or completed by someone else since the list query.
			continue
		}

		res.Completed++
		e.bus.PublishTaskCompleted(eventbus.TaskCompletedPayload{Task: &done, Source: eventbus.SourceSweep})
	}

	e.log.Debug().Ctx(ctx).
		Int("scanned", res.Scanned).
		Int("completed", res.Completed).
		Int("failed", res.Failed).
		Msg("sweep finished")

	return res
}
