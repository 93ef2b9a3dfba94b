// Package handler exposes the administrative endpoints. All routes require
// an authenticated caller with the admin flag.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	adminService "spearow/internal/admin/service"
	"spearow/internal/platform/middleware"
	reportModel "spearow/internal/report/models"
	"spearow/internal/transport/http/shared"
	pkgerrors "spearow/pkg/errors"
	"spearow/pkg/requestcontext"
)

// Service defines the admin operations the handler needs.
type Service interface {
	ListUsers(ctx context.Context) ([]adminService.UserSummary, error)
	GenerateUserReport(ctx context.Context, userID uuid.UUID, format reportModel.ReportFormat) ([]byte, string, error)
	SetAdminStatus(ctx context.Context, userID uuid.UUID, admin bool) error
	SetVerifyStatus(ctx context.Context, userID uuid.UUID, verified bool) error
}

// Handler handles admin endpoints.
type Handler struct {
	logger   *slog.Logger
	admin    Service
	verifier middleware.TokenVerifier
}

// New creates an admin Handler.
func New(admin Service, logger *slog.Logger, verifier middleware.TokenVerifier) *Handler {
	return &Handler{
		logger:   logger,
		admin:    admin,
		verifier: verifier,
	}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.verifier, h.logger))
		r.Use(middleware.RequireAdmin(h.logger))

		r.Get("/users", h.handleListUsers)
		r.Post("/user-report", h.handleUserReport)
		r.Patch("/users/{userID}/admin-status", h.handleAdminStatus)
		r.Patch("/users/{userID}/verify-status", h.handleVerifyStatus)
	})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.admin.ListUsers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "user listing failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "User data fetched successfully",
		"users":   users,
	})
}

type userReportRequest struct {
	UserID       string                   `json:"userId"`
	ReportFormat reportModel.ReportFormat `json:"reportFormat"`
}

func (h *Handler) handleUserReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req userReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, "malformed request body"))
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "userId must be a valid UUID"))
		return
	}

	out, contentType, err := h.admin.GenerateUserReport(ctx, userID, req.ReportFormat)
	if err != nil {
		h.logger.WarnContext(ctx, "admin user report failed",
			"user_id", userID,
			"error", err,
			"request_id", requestID)
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		h.logger.ErrorContext(ctx, "failed to write report response",
			"error", err,
			"request_id", requestID)
	}
}

func (h *Handler) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	h.handleStatusPatch(w, r, "admin", func(ctx context.Context, id uuid.UUID, value bool) error {
		return h.admin.SetAdminStatus(ctx, id, value)
	})
}

func (h *Handler) handleVerifyStatus(w http.ResponseWriter, r *http.Request) {
	h.handleStatusPatch(w, r, "verified", func(ctx context.Context, id uuid.UUID, value bool) error {
		return h.admin.SetVerifyStatus(ctx, id, value)
	})
}

func (h *Handler) handleStatusPatch(w http.ResponseWriter, r *http.Request, field string, apply func(context.Context, uuid.UUID, bool) error) {
	ctx := r.Context()

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "user id must be a valid UUID"))
		return
	}

	var body map[string]*bool
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, "malformed request body"))
		return
	}
	value := body[field]
	if value == nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, field+" status is required"))
		return
	}

	if err := apply(ctx, userID, *value); err != nil {
		h.logger.WarnContext(ctx, "status update failed",
			"user_id", userID,
			"field", field,
			"error", err,
			"request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Status updated successfully",
		field:     *value,
	})
}
