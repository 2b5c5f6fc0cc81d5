package reqctx

import (
	"context"
)

type ctxKey string

const requestIDKey ctxKey = "request-id"

// Create a new context with the request (correlation) id
func New(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Extract the request id from the context
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
