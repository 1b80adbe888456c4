// Package services contains the business logic layer. Services validate
// domain rules before touching repositories; handlers stay thin.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/repositories"
)

// ProjectService manages the project lifecycle: creation, status
// transitions, team assignments and deliverables.
type ProjectService interface {
	Create(ctx context.Context, clientID uuid.UUID, name, brief string) (*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error)

	// UpdateStatus moves the project to newStatus. Transitions outside the
	// lifecycle table are rejected with ErrTransitionNotAllowed regardless
	// of the caller's role. Every accepted transition appends a timeline
	// entry recording who moved the project and why.
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, updatedBy uuid.UUID, comment string) (*models.Project, error)

	AddTeamMember(ctx context.Context, id, userID uuid.UUID, role string) error
	RemoveTeamMember(ctx context.Context, id, userID uuid.UUID) error
	AddDeliverable(ctx context.Context, id uuid.UUID, title string) (*models.Deliverable, error)
	AttachDeliverableFile(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	repo          repositories.ProjectRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(
	repo repositories.ProjectRepository,
	notifications NotificationService,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		repo:          repo,
		notifications: notifications,
		logger:        logger,
	}
}

// Create starts a new project in the inquiry status.
func (s *projectService) Create(ctx context.Context, clientID uuid.UUID, name, brief string) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", apperrors.ErrValidation)
	}

	project := &models.Project{
		ID:           uuid.New(),
		ClientID:     clientID,
		Name:         name,
		Status:       models.StatusInquiry,
		Brief:        brief,
		Team:         models.TeamMembers{},
		Deliverables: models.Deliverables{},
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("client_id", clientID.String()))

	return project, nil
}

// Get retrieves a project by ID.
func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all projects.
func (s *projectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.repo.List(ctx)
}

// ListByClient retrieves a client's projects.
func (s *projectService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// UpdateStatus performs a guarded lifecycle transition.
func (s *projectService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, updatedBy uuid.UUID, comment string) (*models.Project, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, newStatus)
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(project.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrTransitionNotAllowed, project.Status, newStatus)
	}

	entry := models.TimelineEntry{
		Status:    newStatus,
		UpdatedBy: updatedBy,
		Comment:   comment,
		Timestamp: now(),
	}

	// The repository guards the write on the status we just read, so a
	// concurrent transition surfaces as ErrConflict instead of silently
	// overwriting the other caller's change.
	if err := s.repo.UpdateStatus(ctx, id, newStatus, entry, project.Status); err != nil {
		return nil, err
	}

	s.logger.Info("project status changed",
		zap.String("project_id", id.String()),
		zap.String("from", project.Status),
		zap.String("to", newStatus),
		zap.String("updated_by", updatedBy.String()))

	s.notifyStatusChange(ctx, project, newStatus, updatedBy)

	return s.repo.GetByID(ctx, id)
}

// notifyStatusChange fans out a status-change notification to the client
// and every team member except the actor. Notification failures are logged
// and swallowed; the transition already committed.
func (s *projectService) notifyStatusChange(ctx context.Context, project *models.Project, newStatus string, updatedBy uuid.UUID) {
	if s.notifications == nil {
		return
	}

	recipients := map[uuid.UUID]struct{}{project.ClientID: {}}
	for _, m := range project.Team {
		recipients[m.UserID] = struct{}{}
	}
	delete(recipients, updatedBy)

	payload := map[string]any{
		"project_id":   project.ID.String(),
		"project_name": project.Name,
		"from":         project.Status,
		"to":           newStatus,
	}

	for userID := range recipients {
		if err := s.notifications.Notify(ctx, userID, models.NotificationStatusChange, payload); err != nil {
			s.logger.Warn("failed to send status change notification",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}
}

// AddTeamMember assigns a staff member to the project. Adding a user who is
// already on the team is a no-op.
func (s *projectService) AddTeamMember(ctx context.Context, id, userID uuid.UUID, role string) error {
	member := models.ProjectMember{
		UserID:  userID,
		Role:    role,
		AddedAt: now(),
	}

	if err := s.repo.AddTeamMember(ctx, id, member); err != nil {
		return err
	}

	if s.notifications != nil {
		payload := map[string]any{"project_id": id.String(), "role": role}
		if err := s.notifications.Notify(ctx, userID, models.NotificationAssignment, payload); err != nil {
			s.logger.Warn("failed to send assignment notification",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// RemoveTeamMember removes a staff member from the project.
func (s *projectService) RemoveTeamMember(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.RemoveTeamMember(ctx, id, userID)
}

// AddDeliverable registers a new deliverable on the project.
func (s *projectService) AddDeliverable(ctx context.Context, id uuid.UUID, title string) (*models.Deliverable, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: deliverable title is required", apperrors.ErrValidation)
	}

	deliverable := models.Deliverable{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: now(),
	}

	if err := s.repo.AddDeliverable(ctx, id, deliverable); err != nil {
		return nil, err
	}

	return &deliverable, nil
}

// AttachDeliverableFile records the uploaded file URL on a deliverable.
func (s *projectService) AttachDeliverableFile(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error {
	if fileURL == "" {
		return fmt.Errorf("%w: file URL is required", apperrors.ErrValidation)
	}
	return s.repo.AttachDeliverableFile(ctx, id, deliverableID, fileURL)
}

// Delete removes a project.
func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
