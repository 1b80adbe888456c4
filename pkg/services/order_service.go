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

// OrderService manages client project requests. Accepting an order creates
// a project draft from the order's brief.
type OrderService interface {
	Create(ctx context.Context, clientID uuid.UUID, title, details string) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error)

	// Accept marks the order accepted and opens a project for it. Only
	// orders still in the new status can be accepted.
	Accept(ctx context.Context, id uuid.UUID, acceptedBy uuid.UUID) (*models.Project, error)

	// Reject marks the order rejected. Only new orders can be rejected.
	Reject(ctx context.Context, id uuid.UUID, rejectedBy uuid.UUID) error
}

type orderService struct {
	repo          repositories.OrderRepository
	projects      ProjectService
	notifications NotificationService
	logger        *zap.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	repo repositories.OrderRepository,
	projects ProjectService,
	notifications NotificationService,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		repo:          repo,
		projects:      projects,
		notifications: notifications,
		logger:        logger,
	}
}

// Create submits a new order.
func (s *orderService) Create(ctx context.Context, clientID uuid.UUID, title, details string) (*models.Order, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: order title is required", apperrors.ErrValidation)
	}

	order := &models.Order{
		ID:       uuid.New(),
		ClientID: clientID,
		Title:    title,
		Details:  details,
		Status:   models.OrderStatusNew,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("client_id", clientID.String()))

	return order, nil
}

// Get retrieves an order by ID.
func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all orders.
func (s *orderService) List(ctx context.Context) ([]*models.Order, error) {
	return s.repo.List(ctx)
}

// ListByClient retrieves a client's orders.
func (s *orderService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Accept opens a project for the order and marks it accepted.
func (s *orderService) Accept(ctx context.Context, id uuid.UUID, acceptedBy uuid.UUID) (*models.Project, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusNew {
		return nil, fmt.Errorf("%w: order already %s", apperrors.ErrConflict, order.Status)
	}

	project, err := s.projects.Create(ctx, order.ClientID, order.Title, order.Details)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, models.OrderStatusAccepted); err != nil {
		return nil, err
	}

	s.logger.Info("order accepted",
		zap.String("order_id", id.String()),
		zap.String("project_id", project.ID.String()),
		zap.String("accepted_by", acceptedBy.String()))

	s.notifyOrderUpdate(ctx, order, models.OrderStatusAccepted)

	return project, nil
}

// Reject closes the order without creating a project.
func (s *orderService) Reject(ctx context.Context, id uuid.UUID, rejectedBy uuid.UUID) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusNew {
		return fmt.Errorf("%w: order already %s", apperrors.ErrConflict, order.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, models.OrderStatusRejected); err != nil {
		return err
	}

	s.logger.Info("order rejected",
		zap.String("order_id", id.String()),
		zap.String("rejected_by", rejectedBy.String()))

	s.notifyOrderUpdate(ctx, order, models.OrderStatusRejected)

	return nil
}

func (s *orderService) notifyOrderUpdate(ctx context.Context, order *models.Order, status string) {
	if s.notifications == nil {
		return
	}
	payload := map[string]any{
		"order_id": order.ID.String(),
		"title":    order.Title,
		"status":   status,
	}
	if err := s.notifications.Notify(ctx, order.ClientID, models.NotificationOrderUpdate, payload); err != nil {
		s.logger.Warn("failed to send order notification",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

// Ensure orderService implements OrderService at compile time.
var _ OrderService = (*orderService)(nil)
