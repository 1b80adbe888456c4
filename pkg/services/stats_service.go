package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/models"
	"github.com/daru-studio/daru-engine/pkg/repositories"
)

// StatsService aggregates dashboard statistics for admins.
type StatsService interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

type statsService struct {
	repo   repositories.StatsRepository
	logger *zap.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(repo repositories.StatsRepository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger}
}

// AdminStats gathers the roster and workload counts.
func (s *statsService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	usersByRole, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}

	projectsByStatus, err := s.repo.CountProjectsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	open, total, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		UsersByRole:      usersByRole,
		ProjectsByStatus: projectsByStatus,
		OpenOrders:       open,
		TotalOrders:      total,
	}, nil
}

// Ensure statsService implements StatsService at compile time.
var _ StatsService = (*statsService)(nil)
