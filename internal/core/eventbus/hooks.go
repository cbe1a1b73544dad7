package eventbus

import "sync"

type (
	eventHook = func(Event, any)
	panicHook = func(Event, any, any)
)

type hooks struct {
	mu        sync.RWMutex
	onPublish []eventHook
	onDrop    []eventHook
	onPanic   []panicHook
}

// OnPublish registers a hook that runs after an event is queued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	bus.hooks.onPublish = append(bus.hooks.onPublish, fn)
}

// OnDrop registers a hook that runs when the buffer is full and an event is
// discarded. Drops never block the publisher.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	bus.hooks.onDrop = append(bus.hooks.onDrop, fn)
}

// OnPanic registers a hook that runs when a subscriber panics. The panic
// value is passed as the third argument.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	bus.hooks.mu.Lock()
	defer bus.hooks.mu.Unlock()
	bus.hooks.onPanic = append(bus.hooks.onPanic, fn)
}

// send queues an event without blocking. Safe on a nil bus.
func (bus *EventBus) send(event Event, payload any) {
	if bus == nil {
		return
	}

	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range snapshot(&bus.hooks.mu, &bus.hooks.onPublish) {
			fn(event, payload)
		}
	default:
		for _, fn := range snapshot(&bus.hooks.mu, &bus.hooks.onDrop) {
			fn(event, payload)
		}
	}
}

// runOnPanic reports a subscriber panic. A panicking hook is swallowed so
// the dispatch loop keeps running.
func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	for _, fn := range snapshot(&bus.hooks.mu, &bus.hooks.onPanic) {
		func() {
			defer func() { _ = recover() }()
			fn(event, payload, recovered)
		}()
	}
}

// snapshot copies the hook slice under the read lock. The slice is passed by
// pointer so its header is not read before the lock is held.
func snapshot[T any](mu *sync.RWMutex, fns *[]T) []T {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]T, len(*fns))
	copy(out, *fns)
	return out
}
