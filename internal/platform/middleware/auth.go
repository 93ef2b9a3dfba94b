// Package middleware holds the HTTP middleware shared across features.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"spearow/pkg/requestcontext"
)

// TokenVerifier resolves a bearer token into the caller's identity claims.
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// Claims is the identity extracted from a verified token.
type Claims struct {
	Email string
	Admin bool
}

// RequireAuth rejects requests without a valid bearer token and injects the
// resolved caller identity into the request context.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx))
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx))
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithCallerEmail(ctx, claims.Email)
			ctx = withAdmin(ctx, claims.Admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`)) //nolint:errcheck
}
