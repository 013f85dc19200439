package log

import "context"

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID attaches a request ID to the context. Entries logged
// with the *Ctx helpers pick it up automatically.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request ID, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
