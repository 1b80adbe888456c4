package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// GenerateBriefRequest for POST body.
type GenerateBriefRequest struct {
	Transcript string `json:"transcript"`
}

// AnalyzeImagesRequest for POST body.
type AnalyzeImagesRequest struct {
	ImageURLs []string `json:"image_urls"`
}

// DraftWireframeRequest for POST body.
type DraftWireframeRequest struct {
	Brief string `json:"brief"`
}

// BriefHandler handles the AI assist requests.
type BriefHandler struct {
	service services.BriefService
	logger  *zap.Logger
}

// NewBriefHandler creates a new brief handler.
func NewBriefHandler(service services.BriefService, logger *zap.Logger) *BriefHandler {
	return &BriefHandler{service: service, logger: logger}
}

// RegisterRoutes registers the AI assist routes behind the use_ai_assist
// permission. These routes are also rate limited upstream.
func (h *BriefHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	gate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequirePermissions(models.PermUseAIAssist),
	)

	mux.HandleFunc("POST /api/ai/brief", gate(h.GenerateBrief))
	mux.HandleFunc("POST /api/ai/analyze-image", gate(h.AnalyzeImages))
	mux.HandleFunc("POST /api/ai/wireframe", gate(h.DraftWireframe))
}

// GenerateBrief turns a chat transcript into a structured project brief.
func (h *BriefHandler) GenerateBrief(w http.ResponseWriter, r *http.Request) {
	var req GenerateBriefRequest
	if err := decodeJSON(r, &req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	brief, err := h.service.GenerateBrief(r.Context(), req.Transcript)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to generate brief")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"brief": brief}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AnalyzeImages describes uploaded reference images.
func (h *BriefHandler) AnalyzeImages(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeImagesRequest
	if err := decodeJSON(r, &req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	analysis, err := h.service.AnalyzeReferenceImages(r.Context(), req.ImageURLs)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to analyze images")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"analysis": analysis}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DraftWireframe produces a wireframe outline from a project brief.
func (h *BriefHandler) DraftWireframe(w http.ResponseWriter, r *http.Request) {
	var req DraftWireframeRequest
	if err := decodeJSON(r, &req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	wireframe, err := h.service.DraftWireframe(r.Context(), req.Brief)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to draft wireframe")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"wireframe": wireframe}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
