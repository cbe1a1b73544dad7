package logging

import "github.com/rs/zerolog"

// ContextHook copies the owner and document stored on an event's context
// into the event. Use it with Event.Ctx.
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	if owner := GetOwner(ctx); owner != "" {
		e.Str("owner", owner)
	}
	if doc := GetDocument(ctx); doc != "" {
		e.Str("document", doc)
	}
}
