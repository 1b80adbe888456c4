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

// CommentService manages project discussion threads.
type CommentService interface {
	Post(ctx context.Context, projectID, authorID uuid.UUID, body string) (*models.Comment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error)
}

type commentService struct {
	repo          repositories.CommentRepository
	projects      repositories.ProjectRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	repo repositories.CommentRepository,
	projects repositories.ProjectRepository,
	notifications NotificationService,
	logger *zap.Logger,
) CommentService {
	return &commentService{
		repo:          repo,
		projects:      projects,
		notifications: notifications,
		logger:        logger,
	}
}

// Post adds a comment to a project and notifies the other participants.
func (s *commentService) Post(ctx context.Context, projectID, authorID uuid.UUID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", apperrors.ErrValidation)
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		ProjectID: projectID,
		AuthorID:  authorID,
		Body:      body,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, project, authorID, comment)

	return comment, nil
}

// ListByProject retrieves a project's comments in posting order.
func (s *commentService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *commentService) notifyParticipants(ctx context.Context, project *models.Project, authorID uuid.UUID, comment *models.Comment) {
	if s.notifications == nil {
		return
	}

	recipients := map[uuid.UUID]struct{}{project.ClientID: {}}
	for _, m := range project.Team {
		recipients[m.UserID] = struct{}{}
	}
	delete(recipients, authorID)

	payload := map[string]any{
		"project_id": project.ID.String(),
		"comment_id": comment.ID.String(),
		"author_id":  authorID.String(),
	}

	for userID := range recipients {
		if err := s.notifications.Notify(ctx, userID, models.NotificationComment, payload); err != nil {
			s.logger.Warn("failed to send comment notification",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}
}

// Ensure commentService implements CommentService at compile time.
var _ CommentService = (*commentService)(nil)
