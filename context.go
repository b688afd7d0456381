package authclient

import "context"

type contextKey int

const requestIDContextKey contextKey = iota

// WithRequestID attaches a caller-supplied request correlation id to ctx.
// When absent, each operation generates its own.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}
