package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/repositories"
)

// NotificationService delivers in-app notifications and tracks read state.
type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, notificationType string, payload map[string]any) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	// MarkAsRead is idempotent: re-reading a notification keeps its
	// original read_at.
	MarkAsRead(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

// Notify creates an unread notification for the user.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, notificationType string, payload map[string]any) error {
	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    notificationType,
		Payload: payload,
	}
	return s.repo.Create(ctx, notification)
}

// ListForUser retrieves the user's notifications, newest first.
func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkAsRead flags the notification as read.
func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// Ensure notificationService implements NotificationService at compile time.
var _ NotificationService = (*notificationService)(nil)
