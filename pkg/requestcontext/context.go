// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services read them, and
// tests inject them, without services importing net/http.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	callerEmailKey struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyCallerEmail = callerEmailKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// CallerEmail retrieves the resolved caller identity from the context.
// Returns "" when the request is unauthenticated.
func CallerEmail(ctx context.Context) string {
	if email, ok := ctx.Value(ContextKeyCallerEmail).(string); ok {
		return email
	}
	return ""
}

// WithCallerEmail injects the resolved caller identity into the context.
func WithCallerEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextKeyCallerEmail, email)
}

// RequestID retrieves the request correlation id from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request correlation id into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// Now returns the request time if one was pinned, else wall-clock time.
// Tests pin it with WithTime for deterministic timestamps.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
