package logging

import "context"

type contextKey string

const (
	ownerKey    contextKey = "owner"
	documentKey contextKey = "document"
)

// WithOwner adds the task owner to the context.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// WithDocument adds the path of the markdown document being processed.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey, path)
}

// GetOwner retrieves the owner from the context.
// Returns empty string if not present.
func GetOwner(ctx context.Context) string {
	if v, ok := ctx.Value(ownerKey).(string); ok {
		return v
	}
	return ""
}

// GetDocument retrieves the document path from the context.
// Returns empty string if not present.
func GetDocument(ctx context.Context) string {
	if v, ok := ctx.Value(documentKey).(string); ok {
		return v
	}
	return ""
}
