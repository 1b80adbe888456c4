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

// TaskService manages staff work items scoped to projects.
type TaskService interface {
	Create(ctx context.Context, projectID uuid.UUID, title string, assigneeID *uuid.UUID) (*models.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error)
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, id uuid.UUID, updates models.TaskUpdates) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	repo          repositories.TaskRepository
	projects      repositories.ProjectRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(
	repo repositories.TaskRepository,
	projects repositories.ProjectRepository,
	notifications NotificationService,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		repo:          repo,
		projects:      projects,
		notifications: notifications,
		logger:        logger,
	}
}

// Create adds a task to a project. The project must exist.
func (s *taskService) Create(ctx context.Context, projectID uuid.UUID, title string, assigneeID *uuid.UUID) (*models.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", apperrors.ErrValidation)
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:         uuid.New(),
		ProjectID:  projectID,
		AssigneeID: assigneeID,
		Title:      title,
		Status:     models.TaskStatusTodo,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.notifyAssignment(ctx, task.AssigneeID, task)

	return task, nil
}

// Get retrieves a task by ID.
func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByProject retrieves a project's tasks.
func (s *taskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// ListByAssignee retrieves the tasks assigned to a user.
func (s *taskService) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error) {
	return s.repo.ListByAssignee(ctx, assigneeID)
}

// Update applies the non-nil fields of updates.
func (s *taskService) Update(ctx context.Context, id uuid.UUID, updates models.TaskUpdates) (*models.Task, error) {
	if updates.Status != nil && !models.IsValidTaskStatus(*updates.Status) {
		return nil, fmt.Errorf("%w: unknown task status %q", apperrors.ErrValidation, *updates.Status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Reassignment notifies the new assignee only.
	if updates.AssigneeID != nil &&
		(current.AssigneeID == nil || *current.AssigneeID != *updates.AssigneeID) {
		s.notifyAssignment(ctx, updates.AssigneeID, task)
	}

	return task, nil
}

// Delete removes a task.
func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *taskService) notifyAssignment(ctx context.Context, assigneeID *uuid.UUID, task *models.Task) {
	if s.notifications == nil || assigneeID == nil {
		return
	}
	payload := map[string]any{
		"task_id":    task.ID.String(),
		"project_id": task.ProjectID.String(),
		"title":      task.Title,
	}
	if err := s.notifications.Notify(ctx, *assigneeID, models.NotificationAssignment, payload); err != nil {
		s.logger.Warn("failed to send task assignment notification",
			zap.String("task_id", task.ID.String()),
			zap.Error(err))
	}
}

// Ensure taskService implements TaskService at compile time.
var _ TaskService = (*taskService)(nil)
