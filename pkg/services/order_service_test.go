package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/models"
)

func TestOrderAccept_CreatesProjectFromBrief(t *testing.T) {
	orderID := uuid.New()
	clientID := uuid.New()

	orderRepo := &mockOrderRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{
				ID:       id,
				ClientID: clientID,
				Title:    "Landing page",
				Details:  "single page, dark theme",
				Status:   models.OrderStatusNew,
			}, nil
		},
		UpdateStatusFunc: func(_ context.Context, _ uuid.UUID, status string) error {
			assert.Equal(t, models.OrderStatusAccepted, status)
			return nil
		},
	}

	var createdProject *models.Project
	projectRepo := &mockProjectRepository{
		CreateFunc: func(_ context.Context, project *models.Project) error {
			createdProject = project
			return nil
		},
	}
	projects := NewProjectService(projectRepo, nil, zap.NewNop())
	notifications := &recordingNotificationService{}
	svc := NewOrderService(orderRepo, projects, notifications, zap.NewNop())

	project, err := svc.Accept(context.Background(), orderID, uuid.New())

	require.NoError(t, err)
	require.NotNil(t, createdProject)
	assert.Equal(t, clientID, project.ClientID)
	assert.Equal(t, "Landing page", project.Name)
	assert.Equal(t, "single page, dark theme", project.Brief)
	assert.Equal(t, models.StatusInquiry, project.Status)

	require.Len(t, notifications.Sent, 1)
	assert.Equal(t, clientID, notifications.Sent[0].UserID)
	assert.Equal(t, models.NotificationOrderUpdate, notifications.Sent[0].Type)
}

func TestOrderAccept_RejectsAlreadyDecided(t *testing.T) {
	orderRepo := &mockOrderRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{ID: id, Status: models.OrderStatusRejected}, nil
		},
	}
	svc := NewOrderService(orderRepo, nil, nil, zap.NewNop())

	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestOrderReject_OnlyNewOrders(t *testing.T) {
	calls := 0
	orderRepo := &mockOrderRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{ID: id, Status: models.OrderStatusAccepted}, nil
		},
		UpdateStatusFunc: func(context.Context, uuid.UUID, string) error {
			calls++
			return nil
		},
	}
	svc := NewOrderService(orderRepo, nil, nil, zap.NewNop())

	err := svc.Reject(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 0, calls)
}

func TestOrderCreate_RequiresTitle(t *testing.T) {
	svc := NewOrderService(&mockOrderRepository{}, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), uuid.New(), "", "details")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
