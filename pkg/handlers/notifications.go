package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// NotificationHandler handles in-app notification requests.
type NotificationHandler struct {
	service services.NotificationService
	logger  *zap.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(service services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: logger}
}

// RegisterRoutes registers the notification routes. Notifications are always
// scoped to the caller; there is no cross-user access.
func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/notifications", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/notifications/{id}/read", authMiddleware.RequireAuth(h.MarkAsRead))
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserUUIDFromContext(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "token_invalid", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	if err := WriteJSON(w, http.StatusOK, notifications); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkAsRead flags a notification as read. Repeat calls are no-ops.
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_notification_id", "Invalid notification ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.service.MarkAsRead(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to mark notification as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
