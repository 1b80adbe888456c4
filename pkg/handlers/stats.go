package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// StatsHandler serves the admin dashboard aggregates.
type StatsHandler struct {
	service services.StatsService
	logger  *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service services.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{service: service, logger: logger}
}

// RegisterRoutes registers the stats routes. Reading the dashboard needs
// view_analytics; generating a report needs view_reports.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	dashboardGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequireRoles(models.RoleAdmin),
		authMiddleware.RequirePermissions(models.PermViewAnalytics),
	)
	reportGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequireRoles(models.RoleAdmin),
		authMiddleware.RequirePermissions(models.PermViewReports),
	)

	mux.HandleFunc("GET /api/admin/stats", dashboardGate(h.AdminStats))
	mux.HandleFunc("POST /api/admin/stats", reportGate(h.GenerateReport))
}

// AdminStats returns roster and workload counts.
func (h *StatsHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AdminStats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to gather stats")
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GenerateReport snapshots the aggregates with a timestamp.
func (h *StatsHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AdminStats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to generate report")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"generated_at": time.Now().UTC(),
		"stats":        stats,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
