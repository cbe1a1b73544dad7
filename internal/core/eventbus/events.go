// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within tickdown.
package eventbus

import "github.com/hay-kot/tickdown/internal/core/task"

// Event names a bus event.
type Event string

const (
	// Keep list sorted A-Z
	EventTaskCompleted Event = "task.completed"
	EventTaskCreated   Event = "task.created"
	EventTaskDeleted   Event = "task.deleted"
	EventTaskUpdated   Event = "task.updated"
)

// CompletionSource identifies which code path finalized a task.
type CompletionSource string

const (
	SourceSweep    CompletionSource = "sweep"
	SourceExplicit CompletionSource = "explicit"
)

// TaskCreatedPayload is emitted when a task is created by quick-add or
// reconciliation.
type TaskCreatedPayload struct {
	Task *task.Task
}

// TaskUpdatedPayload is emitted when a task's checkbox state or text changes.
type TaskUpdatedPayload struct {
	Task     *task.Task
	Previous task.State
}

// TaskCompletedPayload is emitted when a task is finalized.
type TaskCompletedPayload struct {
	Task   *task.Task
	Source CompletionSource
}

// TaskDeletedPayload is emitted when a task is removed.
type TaskDeletedPayload struct {
	TaskID  string
	OwnerID string
}

// PublishTaskCreated enqueues a task.created event.
func (bus *EventBus) PublishTaskCreated(p TaskCreatedPayload) { bus.send(EventTaskCreated, p) }

// PublishTaskUpdated enqueues a task.updated event.
func (bus *EventBus) PublishTaskUpdated(p TaskUpdatedPayload) { bus.send(EventTaskUpdated, p) }

// PublishTaskCompleted enqueues a task.completed event.
func (bus *EventBus) PublishTaskCompleted(p TaskCompletedPayload) { bus.send(EventTaskCompleted, p) }

// PublishTaskDeleted enqueues a task.deleted event.
func (bus *EventBus) PublishTaskDeleted(p TaskDeletedPayload) { bus.send(EventTaskDeleted, p) }

// SubscribeTaskCreated registers fn for task.created events.
func (bus *EventBus) SubscribeTaskCreated(fn func(TaskCreatedPayload)) {
	subscribe(bus, EventTaskCreated, fn)
}

// SubscribeTaskUpdated registers fn for task.updated events.
func (bus *EventBus) SubscribeTaskUpdated(fn func(TaskUpdatedPayload)) {
	subscribe(bus, EventTaskUpdated, fn)
}

// SubscribeTaskCompleted registers fn for task.completed events.
func (bus *EventBus) SubscribeTaskCompleted(fn func(TaskCompletedPayload)) {
	subscribe(bus, EventTaskCompleted, fn)
}

// SubscribeTaskDeleted registers fn for task.deleted events.
func (bus *EventBus) SubscribeTaskDeleted(fn func(TaskDeletedPayload)) {
	subscribe(bus, EventTaskDeleted, fn)
}
