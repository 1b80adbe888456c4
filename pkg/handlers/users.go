package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// CreateUserRequest for POST body.
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserHandler handles admin roster management requests.
type UserHandler struct {
	service services.UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// RegisterRoutes registers the roster routes. All of them are admin-only:
// the role gate and the manage_users permission gate both apply.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	adminGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequireRoles(models.RoleAdmin),
		authMiddleware.RequirePermissions(models.PermManageUsers),
	)

	mux.HandleFunc("GET /api/admin/users", adminGate(h.List))
	mux.HandleFunc("POST /api/admin/users", adminGate(h.Create))
	mux.HandleFunc("GET /api/admin/users/{id}", adminGate(h.Get))
	mux.HandleFunc("PATCH /api/admin/users/{id}", adminGate(h.Update))
	mux.HandleFunc("DELETE /api/admin/users/{id}", adminGate(h.Delete))
}

// List returns the full roster.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list users")
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	if err := WriteJSON(w, http.StatusOK, users); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create registers a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.service.Create(r.Context(), req.Email, req.Name, req.Role)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create user")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get returns one user.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get user")
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update applies role, status and permission changes.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var updates models.UserUpdates
	if err := decodeJSON(r, &updates); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.service.Update(r.Context(), id, updates)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update user")
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete removes a user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
