package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dispochart/internal/services"
)

// HealthHandler serves the probes and build info.
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes returns the probe router, mounted at /api/health.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(noStore)
	r.Get("/", h.HealthCheck)
	r.Get("/ready", h.ReadinessCheck)
	r.Get("/live", h.LivenessCheck)
	return r
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.probe(w, r, h.service.HealthCheck(r.Context()), "ok")
}

// ReadinessCheck handles GET /api/health/ready. A failed pipeline probe
// answers 503 so load balancers stop routing uploads here.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	h.probe(w, r, h.service.ReadinessCheck(r.Context()), "ready")
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	h.probe(w, r, h.service.LivenessCheck(r.Context()), "alive")
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}

func (h *HealthHandler) probe(w http.ResponseWriter, r *http.Request, status services.HealthStatus, want string) {
	if status.Status != want {
		h.logger.WarnContext(r.Context(), "probe failed",
			slog.String("path", r.URL.Path),
			slog.String("status", status.Status),
			slog.Any("services", status.Services))
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
