package repositories

import (
	"context"
	"fmt"

	"github.com/daru-studio/daru-engine/pkg/database"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// StatsRepository defines the interface for aggregate platform statistics.
type StatsRepository interface {
	CountUsersByRole(ctx context.Context) (map[string]int, error)
	CountProjectsByStatus(ctx context.Context) (map[string]int, error)
	CountOrders(ctx context.Context) (open int, total int, err error)
}

// statsRepository implements StatsRepository using PostgreSQL.
type statsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *database.DB) StatsRepository {
	return &statsRepository{db: db}
}

// CountUsersByRole groups active user counts by role.
func (r *statsRepository) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("failed to scan user count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

// CountProjectsByStatus groups project counts by lifecycle status.
func (r *statsRepository) CountProjectsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan project count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountOrders returns the number of open (new) orders and the total order count.
func (r *statsRepository) CountOrders(ctx context.Context) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*)
		FROM orders`

	var open, total int
	err := r.db.QueryRow(ctx, query, models.OrderStatusNew).Scan(&open, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return open, total, nil
}

// Ensure statsRepository implements StatsRepository at compile time.
var _ StatsRepository = (*statsRepository)(nil)
