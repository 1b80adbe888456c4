package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/database"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error)
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, id uuid.UUID, updates models.TaskUpdates) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// taskRepository implements TaskRepository using PostgreSQL.
type taskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *database.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, project_id, assignee_id, title, status, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.AssigneeID,
		&t.Title,
		&t.Status,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return &t, nil
}

// Create inserts a new task.
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	query := `
		INSERT INTO tasks (id, project_id, assignee_id, title, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		task.ID,
		task.ProjectID,
		task.AssigneeID,
		task.Title,
		task.Status,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID.
func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

// ListByProject retrieves the tasks for a project.
func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at`,
		projectID)
}

// ListByAssignee retrieves the tasks assigned to a user.
func (r *taskRepository) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE assignee_id = $1 ORDER BY due_date NULLS LAST, created_at`,
		assigneeID)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update applies the non-nil fields of updates.
func (r *taskRepository) Update(ctx context.Context, id uuid.UUID, updates models.TaskUpdates) error {
	query := `
		UPDATE tasks
		SET title = COALESCE($1, title),
		    status = COALESCE($2, status),
		    assignee_id = COALESCE($3, assignee_id),
		    due_date = COALESCE($4, due_date),
		    updated_at = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		updates.Title,
		updates.Status,
		updates.AssigneeID,
		updates.DueDate,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure taskRepository implements TaskRepository at compile time.
var _ TaskRepository = (*taskRepository)(nil)
