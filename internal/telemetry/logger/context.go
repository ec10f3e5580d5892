// Package logger provides structured logging for vfsnap.
package logger

import "context"

// ctxKey keys context values owned by this package. An unexported int
// type cannot collide with keys from other packages.
type ctxKey int

const (
	ctxKeyLogger ctxKey = iota + 1
	ctxKeyRequestID
)

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, l)
}

// FromContext returns the logger carried by ctx, or the package default
// when the context carries none.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKeyLogger).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID returns a context tagged with a request ID. The server
// assigns one per tool call so all log lines of a call can be grouped.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestIDFromContext returns the request ID in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// L returns the context's logger, enriched with the context's request ID
// when one is set. Handlers call this instead of threading a logger
// through every signature.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		l = l.With("request_id", id)
	}
	return l
}
