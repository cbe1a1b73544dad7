package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs every queued event at debug level, dropped
// events at warn and subscriber panics at error. Task events carry the
// task id and owner.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		withTask(logger.Debug(), event, payload).Msg("event queued")
	})

	bus.OnDrop(func(event Event, payload any) {
		withTask(logger.Warn(), event, payload).Msg("event dropped, buffer full")
	})

	bus.OnPanic(func(event Event, payload any, recovered any) {
		withTask(logger.Error(), event, payload).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func withTask(e *zerolog.Event, event Event, payload any) *zerolog.Event {
	e = e.Str("event", string(event))

	switch p := payload.(type) {
	case TaskCreatedPayload:
		if p.Task != nil {
			e = e.Str("task_id", p.Task.ID).Str("owner", p.Task.OwnerID)
		}
	case TaskUpdatedPayload:
		if p.Task != nil {
			e = e.Str("task_id", p.Task.ID).Str("owner", p.Task.OwnerID).
				Str("from", string(p.Previous)).Str("to", string(p.Task.State()))
		}
	case TaskCompletedPayload:
		if p.Task != nil {
			e = e.Str("task_id", p.Task.ID).Str("owner", p.Task.OwnerID)
		}
		e = e.Str("source", string(p.Source))
	case TaskDeletedPayload:
		e = e.Str("task_id", p.TaskID).Str("owner", p.OwnerID)
	}

	return e
}
