// Package httptransport assembles the public HTTP surface. It wires
// feature handlers onto one chi router; business logic stays in the
// feature services.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"spearow/internal/platform/middleware"
	"spearow/internal/transport/http/shared"
)

// FeatureHandler is implemented by each feature's HTTP handler.
type FeatureHandler interface {
	Register(r chi.Router)
}

// NewRouter builds the public router from the feature handlers.
func NewRouter(logger *slog.Logger, handlers ...FeatureHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
