package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"spearow/pkg/requestcontext"
)

type adminKey struct{}

func withAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, adminKey{}, admin)
}

// IsAdmin reports whether the authenticated caller holds the admin flag.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(adminKey{}).(bool)
	return admin
}

// RequireAdmin rejects authenticated callers without the admin flag. It
// must run after RequireAuth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !IsAdmin(ctx) {
				logger.WarnContext(ctx, "forbidden - admin required",
					"caller", requestcontext.CallerEmail(ctx),
					"request_id", requestcontext.RequestID(ctx))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","error_description":"Administrator access required"}`)) //nolint:errcheck
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
