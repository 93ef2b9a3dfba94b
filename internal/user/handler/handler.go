// Package handler exposes the self-service account endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spearow/internal/platform/middleware"
	"spearow/internal/transport/http/shared"
	userModel "spearow/internal/user/models"
	pkgerrors "spearow/pkg/errors"
	"spearow/pkg/requestcontext"
)

// Service defines the account operations the handler needs.
type Service interface {
	Profile(ctx context.Context, email string) (*userModel.Profile, error)
}

// Handler handles account endpoints.
type Handler struct {
	logger   *slog.Logger
	users    Service
	verifier middleware.TokenVerifier
}

// New creates a user Handler.
func New(users Service, logger *slog.Logger, verifier middleware.TokenVerifier) *Handler {
	return &Handler{
		logger:   logger,
		users:    users,
		verifier: verifier,
	}
}

// Register registers the account routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/home", h.handleHome)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.verifier, h.logger))
		r.Get("/user-info", h.handleUserInfo)
	})
}

func (h *Handler) handleHome(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the home page",
	})
}

type userInfoResponse struct {
	Message string `json:"message"`
	*userModel.Profile
}

func (h *Handler) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := requestcontext.CallerEmail(ctx)
	if email == "" {
		h.logger.ErrorContext(ctx, "caller email missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}

	profile, err := h.users.Profile(ctx, email)
	if err != nil {
		h.logger.WarnContext(ctx, "profile lookup failed",
			"email", email,
			"error", err,
			"request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, userInfoResponse{
		Message: "Users info:",
		Profile: profile,
	})
}
