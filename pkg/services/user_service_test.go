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

func TestUserCreate_DerivesPermissionsFromCatalog(t *testing.T) {
	var created *models.User
	repo := &mockUserRepository{
		CreateFunc: func(_ context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.Create(context.Background(), "ana@daru.studio", "Ana", models.RoleDesigner)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.PermissionsForRole(models.RoleDesigner), user.Permissions)
	assert.Equal(t, models.UserStatusActive, user.Status)
}

func TestUserCreate_RejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, zap.NewNop())

	_, err := svc.Create(context.Background(), "x@daru.studio", "X", "superuser")

	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestUserUpdate_RoleChangeResyncsPermissions(t *testing.T) {
	userID := uuid.New()
	existing := &models.User{
		ID:          userID,
		Role:        models.RoleProjectManager,
		Permissions: models.PermissionsForRole(models.RoleProjectManager),
		Status:      models.UserStatusActive,
	}

	var gotRole string
	var gotPerms []string
	repo := &mockUserRepository{
		GetByIDFunc: func(context.Context, uuid.UUID) (*models.User, error) {
			return existing, nil
		},
		UpdateRoleAndPermissionsFunc: func(_ context.Context, _ uuid.UUID, role string, permissions []string) error {
			gotRole = role
			gotPerms = permissions
			return nil
		},
	}
	svc := NewUserService(repo, zap.NewNop())

	newRole := models.RoleClient
	_, err := svc.Update(context.Background(), userID, models.UserUpdates{Role: &newRole})

	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, gotRole)
	// The demoted user must not keep the manager grants.
	assert.Equal(t, models.PermissionsForRole(models.RoleClient), gotPerms)
	assert.NotContains(t, gotPerms, models.PermManageProjects)
}

func TestUserUpdate_ExplicitPermissionOverrideWins(t *testing.T) {
	userID := uuid.New()
	repo := &mockUserRepository{
		GetByIDFunc: func(context.Context, uuid.UUID) (*models.User, error) {
			return &models.User{ID: userID, Role: models.RoleDesigner}, nil
		},
		UpdateRoleAndPermissionsFunc: func(_ context.Context, _ uuid.UUID, role string, permissions []string) error {
			assert.Equal(t, models.RoleDesigner, role)
			assert.Equal(t, []string{models.PermViewProjects, models.PermViewReports}, permissions)
			return nil
		},
	}
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.Update(context.Background(), userID, models.UserUpdates{
		Permissions: []string{models.PermViewProjects, models.PermViewReports},
	})

	require.NoError(t, err)
}

func TestUserUpdate_RejectsUnknownPermission(t *testing.T) {
	repo := &mockUserRepository{
		GetByIDFunc: func(context.Context, uuid.UUID) (*models.User, error) {
			return &models.User{Role: models.RoleAdmin}, nil
		},
		UpdateRoleAndPermissionsFunc: func(context.Context, uuid.UUID, string, []string) error {
			t.Fatal("repository should not be reached with an invalid permission")
			return nil
		},
	}
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.Update(context.Background(), uuid.New(), models.UserUpdates{
		Permissions: []string{"launch_rockets"},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUserUpdate_StatusOnly(t *testing.T) {
	userID := uuid.New()
	var gotStatus string
	repo := &mockUserRepository{
		GetByIDFunc: func(context.Context, uuid.UUID) (*models.User, error) {
			return &models.User{ID: userID, Role: models.RoleClient, Status: models.UserStatusActive}, nil
		},
		UpdateStatusFunc: func(_ context.Context, _ uuid.UUID, status string) error {
			gotStatus = status
			return nil
		},
	}
	svc := NewUserService(repo, zap.NewNop())

	inactive := models.UserStatusInactive
	_, err := svc.Update(context.Background(), userID, models.UserUpdates{Status: &inactive})

	require.NoError(t, err)
	assert.Equal(t, models.UserStatusInactive, gotStatus)
}

func TestUserUpdate_NotFound(t *testing.T) {
	repo := &mockUserRepository{
		GetByIDFunc: func(context.Context, uuid.UUID) (*models.User, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	svc := NewUserService(repo, zap.NewNop())

	role := models.RoleAdmin
	_, err := svc.Update(context.Background(), uuid.New(), models.UserUpdates{Role: &role})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
