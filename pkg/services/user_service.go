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

// UserService manages the user roster for admins.
type UserService interface {
	Create(ctx context.Context, email, name, role string) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// Update applies the non-nil fields of updates. A role change without
	// an explicit permission override re-derives the permission set from
	// the role catalog, so a demoted user does not keep elevated grants.
	Update(ctx context.Context, id uuid.UUID, updates models.UserUpdates) (*models.User, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo   repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// Create registers a user with the catalog permissions of their role.
func (s *userService) Create(ctx context.Context, email, name, role string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, role)
	}

	user := &models.User{
		ID:          uuid.New(),
		Email:       email,
		Name:        name,
		Role:        role,
		Permissions: models.PermissionsForRole(role),
		Status:      models.UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", role))

	return user, nil
}

// Get retrieves a user by ID.
func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves the full roster.
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// Update applies role, status and permission changes.
func (s *userService) Update(ctx context.Context, id uuid.UUID, updates models.UserUpdates) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Role != nil || updates.Permissions != nil {
		role := user.Role
		if updates.Role != nil {
			if !models.IsValidRole(*updates.Role) {
				return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, *updates.Role)
			}
			role = *updates.Role
		}

		permissions := updates.Permissions
		if permissions == nil {
			// Role changed with no explicit override: resync the
			// denormalized set from the catalog.
			permissions = models.PermissionsForRole(role)
		}
		for _, p := range permissions {
			if !models.IsValidPermission(p) {
				return nil, fmt.Errorf("%w: unknown permission %q", apperrors.ErrValidation, p)
			}
		}

		if err := s.repo.UpdateRoleAndPermissions(ctx, id, role, permissions); err != nil {
			return nil, err
		}

		s.logger.Info("user role updated",
			zap.String("user_id", id.String()),
			zap.String("from", user.Role),
			zap.String("to", role))
	}

	if updates.Status != nil {
		if !models.IsValidUserStatus(*updates.Status) {
			return nil, fmt.Errorf("%w: unknown user status %q", apperrors.ErrValidation, *updates.Status)
		}
		if err := s.repo.UpdateStatus(ctx, id, *updates.Status); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a user from the roster.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
