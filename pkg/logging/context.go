package logging

import (
	"context"

	"github.com/google/uuid"
)

const traversalIDField = "traversal_id"

type contextKey string

const traversalIDKey contextKey = "traversal_id"

// ContextWithTraversalID returns a context carrying the given traversal ID.
func ContextWithTraversalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traversalIDKey, id)
}

// ContextWithNewTraversalID returns a context carrying a freshly generated
// traversal ID, along with the ID itself. Every pagination traversal gets one
// so its page fetches can be correlated in logs.
func ContextWithNewTraversalID(ctx context.Context) (context.Context, string) {
	id := uuid.New().String()
	return ContextWithTraversalID(ctx, id), id
}

// TraversalIDFromContext extracts the traversal ID from a context, or returns
// an empty string.
func TraversalIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traversalIDKey).(string); ok {
		return id
	}
	return ""
}
