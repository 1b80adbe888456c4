package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// CreateTaskRequest for POST body.
type CreateTaskRequest struct {
	ProjectID  string  `json:"project_id"`
	Title      string  `json:"title"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// TaskHandler handles task board HTTP requests.
type TaskHandler struct {
	service services.TaskService
	logger  *zap.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(service services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// RegisterRoutes registers the task routes.
func (h *TaskHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	viewGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequirePermissions(models.PermViewTasks),
	)
	manageGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequirePermissions(models.PermManageTasks),
	)

	mux.HandleFunc("GET /api/tasks", viewGate(h.ListMine))
	mux.HandleFunc("POST /api/tasks", manageGate(h.Create))
	mux.HandleFunc("GET /api/projects/{id}/tasks", viewGate(h.ListByProject))
	mux.HandleFunc("GET /api/tasks/{id}", viewGate(h.Get))
	mux.HandleFunc("PATCH /api/tasks/{id}", manageGate(h.Update))
	mux.HandleFunc("DELETE /api/tasks/{id}", manageGate(h.Delete))
}

// ListMine returns the caller's assigned tasks.
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserUUIDFromContext(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "token_invalid", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	tasks, err := h.service.ListByAssignee(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	if err := WriteJSON(w, http.StatusOK, tasks); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListByProject returns a project's tasks.
func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	tasks, err := h.service.ListByProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	if err := WriteJSON(w, http.StatusOK, tasks); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create adds a task to a project.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var assigneeID *uuid.UUID
	if req.AssigneeID != nil {
		parsed, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_assignee_id", "Invalid assignee ID format"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		assigneeID = &parsed
	}

	task, err := h.service.Create(r.Context(), projectID, req.Title, assigneeID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create task")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, task); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get returns one task.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get task")
		return
	}

	if err := WriteJSON(w, http.StatusOK, task); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update applies the non-nil fields of the request.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var updates models.TaskUpdates
	if err := decodeJSON(r, &updates); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	task, err := h.service.Update(r.Context(), id, updates)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update task")
		return
	}

	if err := WriteJSON(w, http.StatusOK, task); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_task_id", "Invalid task ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
