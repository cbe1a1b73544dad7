// Package testbus runs a real EventBus for a single test and records every
// task event it dispatches.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/tickdown/internal/core/eventbus"
)

const settle = 500 * time.Millisecond

type record struct {
	event   eventbus.Event
	payload any
}

// Bus embeds the running EventBus, so it can be handed to services as-is
// via tb.EventBus.
type Bus struct {
	*eventbus.EventBus

	mu      sync.Mutex
	records []record
}

// New starts a bus that stops when t finishes.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{EventBus: eventbus.New(64)}

	tb.SubscribeTaskCreated(func(p eventbus.TaskCreatedPayload) { tb.add(eventbus.EventTaskCreated, p) })
	tb.SubscribeTaskUpdated(func(p eventbus.TaskUpdatedPayload) { tb.add(eventbus.EventTaskUpdated, p) })
	tb.SubscribeTaskCompleted(func(p eventbus.TaskCompletedPayload) { tb.add(eventbus.EventTaskCompleted, p) })
	tb.SubscribeTaskDeleted(func(p eventbus.TaskDeletedPayload) { tb.add(eventbus.EventTaskDeleted, p) })

	ctx, cancel := context.WithCancel(context.Background())
	go tb.Start(ctx)
	t.Cleanup(cancel)

	return tb
}

func (tb *Bus) add(event eventbus.Event, payload any) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.records = append(tb.records, record{event: event, payload: payload})
}

// Count returns how many events of the given type were dispatched so far.
func (tb *Bus) Count(event eventbus.Event) int {
	return len(Payloads[any](tb, event))
}

// AssertPublished waits briefly for at least one event of the given type.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	assert.Eventually(t, func() bool { return tb.Count(event) > 0 }, settle, 5*time.Millisecond,
		"expected %q to be published", event)
}

// Payloads returns the payloads recorded for event, in dispatch order, that
// have type T.
func Payloads[T any](tb *Bus, event eventbus.Event) []T {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	var out []T
	for _, r := range tb.records {
		if r.event != event {
			continue
		}
		if p, ok := r.payload.(T); ok {
			out = append(out, p)
		}
	}
	return out
}
