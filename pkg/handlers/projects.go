package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/services"
)

// CreateProjectRequest for POST body.
type CreateProjectRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Brief    string `json:"brief"`
}

// UpdateStatusRequest for the status PATCH body.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// AddTeamMemberRequest for the team POST body.
type AddTeamMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// AddDeliverableRequest for the deliverables POST body.
type AddDeliverableRequest struct {
	Title string `json:"title"`
}

// AttachFileRequest for the deliverable file PATCH body.
type AttachFileRequest struct {
	FileURL string `json:"file_url"`
}

// PostCommentRequest for the comments POST body.
type PostCommentRequest struct {
	Body string `json:"body"`
}

// ProjectHandler handles project lifecycle HTTP requests.
type ProjectHandler struct {
	service  services.ProjectService
	comments services.CommentService
	logger   *zap.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(service services.ProjectService, comments services.CommentService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{service: service, comments: comments, logger: logger}
}

// RegisterRoutes registers the project routes. Reads require view_projects;
// mutations require manage_projects except deletion, which stays admin-only.
func (h *ProjectHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	viewGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequirePermissions(models.PermViewProjects),
	)
	manageGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequirePermissions(models.PermManageProjects),
	)
	adminGate := auth.Chain(
		authMiddleware.RequireAuth,
		authMiddleware.RequireRoles(models.RoleAdmin),
	)

	mux.HandleFunc("GET /api/projects", viewGate(h.List))
	mux.HandleFunc("POST /api/projects", manageGate(h.Create))
	mux.HandleFunc("GET /api/projects/{id}", viewGate(h.Get))
	mux.HandleFunc("DELETE /api/projects/{id}", adminGate(h.Delete))

	mux.HandleFunc("PATCH /api/projects/{id}/status", manageGate(h.UpdateStatus))
	mux.HandleFunc("GET /api/projects/{id}/transitions", viewGate(h.Transitions))

	mux.HandleFunc("POST /api/projects/{id}/team", manageGate(h.AddTeamMember))
	mux.HandleFunc("DELETE /api/projects/{id}/team/{userID}", manageGate(h.RemoveTeamMember))

	mux.HandleFunc("POST /api/projects/{id}/deliverables", manageGate(h.AddDeliverable))
	mux.HandleFunc("PATCH /api/projects/{id}/deliverables/{deliverableID}/file", manageGate(h.AttachDeliverableFile))

	mux.HandleFunc("GET /api/projects/{id}/comments", viewGate(h.ListComments))
	mux.HandleFunc("POST /api/projects/{id}/comments", viewGate(h.PostComment))
}

// List returns projects visible to the caller. Clients only see their own;
// staff see everything.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var projects []*models.Project
	var err error

	if auth.GetRoleFromContext(r.Context()) == models.RoleClient {
		clientID, idErr := auth.RequireUserUUIDFromContext(r.Context())
		if idErr != nil {
			if err := ErrorResponse(w, http.StatusUnauthorized, "token_invalid", "Authentication required"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		projects, err = h.service.ListByClient(r.Context(), clientID)
	} else {
		projects, err = h.service.List(r.Context())
	}

	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list projects")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create opens a new project in the inquiry status.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid_request", "Invalid request body")
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.badRequest(w, "invalid_client_id", "Invalid client ID format")
		return
	}

	project, err := h.service.Create(r.Context(), clientID, req.Name, req.Brief)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create project")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get returns one project.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateStatus moves the project through the lifecycle. Illegal transitions
// come back as 422, concurrent transitions as 409.
func (h *ProjectHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid_request", "Invalid request body")
		return
	}

	actorID, err := auth.RequireUserUUIDFromContext(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "token_invalid", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	project, err := h.service.UpdateStatus(r.Context(), id, req.Status, actorID, req.Comment)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update project status")
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Transitions returns the statuses the project can move to next.
func (h *ProjectHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{
		"status":      project.Status,
		"transitions": models.NextStatuses(project.Status),
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AddTeamMember assigns a staff member to the project.
func (h *ProjectHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req AddTeamMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid_request", "Invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.badRequest(w, "invalid_user_id", "Invalid user ID format")
		return
	}

	if err := h.service.AddTeamMember(r.Context(), id, userID, req.Role); err != nil {
		writeServiceError(w, h.logger, err, "Failed to add team member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveTeamMember removes a staff member from the project.
func (h *ProjectHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		h.badRequest(w, "invalid_user_id", "Invalid user ID format")
		return
	}

	if err := h.service.RemoveTeamMember(r.Context(), id, userID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to remove team member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddDeliverable registers a deliverable on the project.
func (h *ProjectHandler) AddDeliverable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req AddDeliverableRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid_request", "Invalid request body")
		return
	}

	deliverable, err := h.service.AddDeliverable(r.Context(), id, req.Title)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to add deliverable")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, deliverable); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AttachDeliverableFile records the uploaded file URL on a deliverable.
func (h *ProjectHandler) AttachDeliverableFile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	deliverableID, err := uuid.Parse(r.PathValue("deliverableID"))
	if err != nil {
		h.badRequest(w, "invalid_deliverable_id", "Invalid deliverable ID format")
		return
	}

	var req AttachFileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid_request", "Invalid request body")
		return
	}

	if err := h.service.AttachDeliverableFile(r.Context(), id, deliverableID, req.FileURL); err != nil {
		writeServiceError(w, h.logger, err, "Failed to attach file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListComments returns a project's discussion thread.
func (h *ProjectHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.ListByProject(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list comments")
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// PostComment adds a comment authored by the caller.
func (h *ProjectHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req PostCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "invalid_request", "Invalid request body")
		return
	}

	authorID, err := auth.RequireUserUUIDFromContext(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "token_invalid", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	comment, err := h.comments.Post(r.Context(), id, authorID, req.Body)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to post comment")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, comment); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete removes a project.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.badRequest(w, "invalid_project_id", "Invalid project ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProjectHandler) badRequest(w http.ResponseWriter, code, message string) {
	if err := ErrorResponse(w, http.StatusBadRequest, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
