// Package reqctx carries per-request values (request id, internal bypass marker)
// across package boundaries without importing the HTTP layer.
package reqctx

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	bypassKey
)

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored in ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithBypass marks ctx as an internal call that skips the API gate
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey, true)
}

// IsBypass reports whether ctx was marked with WithBypass
func IsBypass(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey).(bool)
	return v
}
