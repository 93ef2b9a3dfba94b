package testutil

import (
	"net/http"
	"time"

	"spearow/pkg/requestcontext"
)

// WithCallerEmail adds a caller identity to the request context, simulating
// what the auth middleware does for authenticated requests.
func WithCallerEmail(req *http.Request, email string) *http.Request {
	ctx := requestcontext.WithCallerEmail(req.Context(), email)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request clock for deterministic timestamps.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
