package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthHandler serves liveness probes.
type HealthHandler struct {
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{version: version, logger: logger}
}

// RegisterRoutes registers the health routes. Health is unauthenticated.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
}

// Health returns service status and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	}); err != nil {
		h.logger.Error("Failed to write health response", zap.Error(err))
	}
}
