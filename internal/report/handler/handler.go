// Package handler exposes the report generation endpoint.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spearow/internal/platform/middleware"
	"spearow/internal/report/models"
	"spearow/internal/report/render"
	"spearow/internal/transport/http/shared"
	pkgerrors "spearow/pkg/errors"
	"spearow/pkg/requestcontext"
)

// Service defines the report operations the handler needs.
type Service interface {
	Generate(ctx context.Context, identity string, req models.ReportRequest) (any, error)
}

// Handler handles the report endpoint.
type Handler struct {
	logger   *slog.Logger
	reports  Service
	verifier middleware.TokenVerifier
}

// New creates a report Handler.
func New(reports Service, logger *slog.Logger, verifier middleware.TokenVerifier) *Handler {
	return &Handler{
		logger:   logger,
		reports:  reports,
		verifier: verifier,
	}
}

// Register registers the report routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.verifier, h.logger))
		r.Post("/reports", h.handleGenerateReport)
	})
}

func (h *Handler) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	identity := requestcontext.CallerEmail(ctx)
	if identity == "" {
		h.logger.ErrorContext(ctx, "caller email missing from context despite auth middleware",
			"request_id", requestID)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}

	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, "malformed request body"))
		return
	}

	report, err := h.reports.Generate(ctx, identity, req)
	if err != nil {
		h.logger.WarnContext(ctx, "report generation failed",
			"identity", identity,
			"error", err,
			"request_id", requestID)
		shared.WriteError(w, err)
		return
	}

	out, contentType, err := render.Render(report, req.ReportFormat)
	if err != nil {
		var schemaErr *render.SchemaError
		if errors.As(err, &schemaErr) {
			h.logger.ErrorContext(ctx, "report rendering aborted on schema mismatch",
				"identity", identity,
				"error", err,
				"request_id", requestID)
		}
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
