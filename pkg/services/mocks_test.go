package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/daru-studio/daru-engine/pkg/models"
)

// mockProjectRepository implements repositories.ProjectRepository for tests.
type mockProjectRepository struct {
	CreateFunc                func(ctx context.Context, project *models.Project) error
	GetByIDFunc               func(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListFunc                  func(ctx context.Context) ([]*models.Project, error)
	ListByClientFunc          func(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error)
	UpdateStatusFunc          func(ctx context.Context, id uuid.UUID, newStatus string, entry models.TimelineEntry, expectedStatus string) error
	AddTeamMemberFunc         func(ctx context.Context, id uuid.UUID, member models.ProjectMember) error
	RemoveTeamMemberFunc      func(ctx context.Context, id, userID uuid.UUID) error
	AddDeliverableFunc        func(ctx context.Context, id uuid.UUID, deliverable models.Deliverable) error
	AttachDeliverableFileFunc func(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error

	UpdateStatusCalls int
}

func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return m.CreateFunc(ctx, project)
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	return m.ListFunc(ctx)
}

func (m *mockProjectRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error) {
	return m.ListByClientFunc(ctx, clientID)
}

func (m *mockProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, entry models.TimelineEntry, expectedStatus string) error {
	m.UpdateStatusCalls++
	return m.UpdateStatusFunc(ctx, id, newStatus, entry, expectedStatus)
}

func (m *mockProjectRepository) AddTeamMember(ctx context.Context, id uuid.UUID, member models.ProjectMember) error {
	return m.AddTeamMemberFunc(ctx, id, member)
}

func (m *mockProjectRepository) RemoveTeamMember(ctx context.Context, id, userID uuid.UUID) error {
	return m.RemoveTeamMemberFunc(ctx, id, userID)
}

func (m *mockProjectRepository) AddDeliverable(ctx context.Context, id uuid.UUID, deliverable models.Deliverable) error {
	return m.AddDeliverableFunc(ctx, id, deliverable)
}

func (m *mockProjectRepository) AttachDeliverableFile(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error {
	return m.AttachDeliverableFileFunc(ctx, id, deliverableID, fileURL)
}

func (m *mockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

// mockUserRepository implements repositories.UserRepository for tests.
type mockUserRepository struct {
	CreateFunc                   func(ctx context.Context, user *models.User) error
	GetByIDFunc                  func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListFunc                     func(ctx context.Context) ([]*models.User, error)
	UpdateRoleAndPermissionsFunc func(ctx context.Context, id uuid.UUID, role string, permissions []string) error
	UpdateStatusFunc             func(ctx context.Context, id uuid.UUID, status string) error
	DeleteFunc                   func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return m.ListFunc(ctx)
}

func (m *mockUserRepository) UpdateRoleAndPermissions(ctx context.Context, id uuid.UUID, role string, permissions []string) error {
	return m.UpdateRoleAndPermissionsFunc(ctx, id, role, permissions)
}

func (m *mockUserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

// mockOrderRepository implements repositories.OrderRepository for tests.
type mockOrderRepository struct {
	CreateFunc       func(ctx context.Context, order *models.Order) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListFunc         func(ctx context.Context) ([]*models.Order, error)
	ListByClientFunc func(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status string) error
}

func (m *mockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return m.CreateFunc(ctx, order)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	return m.ListFunc(ctx)
}

func (m *mockOrderRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Order, error) {
	return m.ListByClientFunc(ctx, clientID)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

// recordingNotificationService captures notifications without persistence.
type recordingNotificationService struct {
	Sent []sentNotification
}

type sentNotification struct {
	UserID  uuid.UUID
	Type    string
	Payload map[string]any
}

func (r *recordingNotificationService) Notify(_ context.Context, userID uuid.UUID, notificationType string, payload map[string]any) error {
	r.Sent = append(r.Sent, sentNotification{UserID: userID, Type: notificationType, Payload: payload})
	return nil
}

func (r *recordingNotificationService) ListForUser(context.Context, uuid.UUID) ([]*models.Notification, error) {
	return nil, nil
}

func (r *recordingNotificationService) MarkAsRead(context.Context, uuid.UUID) error {
	return nil
}
