package handlers

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// stubAuthService resolves tokens from a fixed map, standing in for JWKS
// verification in handler tests.
type stubAuthService struct {
	// Tokens maps bearer token strings to the claims they resolve to.
	Tokens map[string]*auth.Claims
	// Expired contains tokens that validate as expired.
	Expired map[string]bool
}

func (s *stubAuthService) ValidateRequest(r *http.Request) (*auth.Claims, string, error) {
	header := r.Header.Get("Authorization")
	if len(header) < 8 || header[:7] != "Bearer " {
		return nil, "", auth.ErrMissingAuthorization
	}
	token := header[7:]

	if s.Expired[token] {
		return nil, "", apperrors.ErrExpiredToken
	}
	claims, ok := s.Tokens[token]
	if !ok {
		return nil, "", apperrors.ErrInvalidToken
	}
	return claims, token, nil
}

func claimsFor(userID uuid.UUID, role string, permissions []string) *auth.Claims {
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
		Role:             role,
		Permissions:      permissions,
	}
}

// mockUserService implements services.UserService for handler tests.
type mockUserService struct {
	CreateFunc func(ctx context.Context, email, name, role string) (*models.User, error)
	GetFunc    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListFunc   func(ctx context.Context) ([]*models.User, error)
	UpdateFunc func(ctx context.Context, id uuid.UUID, updates models.UserUpdates) (*models.User, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error

	UpdateCalls int
}

func (m *mockUserService) Create(ctx context.Context, email, name, role string) (*models.User, error) {
	return m.CreateFunc(ctx, email, name, role)
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockUserService) List(ctx context.Context) ([]*models.User, error) {
	return m.ListFunc(ctx)
}

func (m *mockUserService) Update(ctx context.Context, id uuid.UUID, updates models.UserUpdates) (*models.User, error) {
	m.UpdateCalls++
	return m.UpdateFunc(ctx, id, updates)
}

func (m *mockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

// mockProjectService implements services.ProjectService for handler tests.
type mockProjectService struct {
	CreateFunc                func(ctx context.Context, clientID uuid.UUID, name, brief string) (*models.Project, error)
	GetFunc                   func(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListFunc                  func(ctx context.Context) ([]*models.Project, error)
	ListByClientFunc          func(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error)
	UpdateStatusFunc          func(ctx context.Context, id uuid.UUID, newStatus string, updatedBy uuid.UUID, comment string) (*models.Project, error)
	AddTeamMemberFunc         func(ctx context.Context, id, userID uuid.UUID, role string) error
	RemoveTeamMemberFunc      func(ctx context.Context, id, userID uuid.UUID) error
	AddDeliverableFunc        func(ctx context.Context, id uuid.UUID, title string) (*models.Deliverable, error)
	AttachDeliverableFileFunc func(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProjectService) Create(ctx context.Context, clientID uuid.UUID, name, brief string) (*models.Project, error) {
	return m.CreateFunc(ctx, clientID, name, brief)
}

func (m *mockProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockProjectService) List(ctx context.Context) ([]*models.Project, error) {
	return m.ListFunc(ctx)
}

func (m *mockProjectService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error) {
	return m.ListByClientFunc(ctx, clientID)
}

func (m *mockProjectService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, updatedBy uuid.UUID, comment string) (*models.Project, error) {
	return m.UpdateStatusFunc(ctx, id, newStatus, updatedBy, comment)
}

func (m *mockProjectService) AddTeamMember(ctx context.Context, id, userID uuid.UUID, role string) error {
	return m.AddTeamMemberFunc(ctx, id, userID, role)
}

func (m *mockProjectService) RemoveTeamMember(ctx context.Context, id, userID uuid.UUID) error {
	return m.RemoveTeamMemberFunc(ctx, id, userID)
}

func (m *mockProjectService) AddDeliverable(ctx context.Context, id uuid.UUID, title string) (*models.Deliverable, error) {
	return m.AddDeliverableFunc(ctx, id, title)
}

func (m *mockProjectService) AttachDeliverableFile(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error {
	return m.AttachDeliverableFileFunc(ctx, id, deliverableID, fileURL)
}

func (m *mockProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

// mockCommentService implements services.CommentService for handler tests.
type mockCommentService struct {
	PostFunc          func(ctx context.Context, projectID, authorID uuid.UUID, body string) (*models.Comment, error)
	ListByProjectFunc func(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error)
}

func (m *mockCommentService) Post(ctx context.Context, projectID, authorID uuid.UUID, body string) (*models.Comment, error) {
	return m.PostFunc(ctx, projectID, authorID, body)
}

func (m *mockCommentService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error) {
	return m.ListByProjectFunc(ctx, projectID)
}
