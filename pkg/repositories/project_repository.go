// Package repositories contains the data access layer. Each repository is a
// thin interface over PostgreSQL scoped to one entity type.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/database"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error)
	// UpdateStatus sets the new status and appends the timeline entry in a
	// single statement, so the status change and its audit record cannot be
	// persisted separately. The write is guarded on the expected current
	// status: a concurrent transition surfaces as ErrConflict instead of a
	// lost update.
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, entry models.TimelineEntry, expectedStatus string) error
	// AddTeamMember appends the member unless a member with the same user ID
	// is already on the team (idempotent on user ID).
	AddTeamMember(ctx context.Context, id uuid.UUID, member models.ProjectMember) error
	RemoveTeamMember(ctx context.Context, id, userID uuid.UUID) error
	AddDeliverable(ctx context.Context, id uuid.UUID, deliverable models.Deliverable) error
	// AttachDeliverableFile sets the file URL on an existing deliverable.
	AttachDeliverableFile(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, client_id, name, status, brief, team, deliverables, timeline, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.Name,
		&p.Status,
		&p.Brief,
		&p.Team,
		&p.Deliverables,
		&p.Timeline,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}

// Create inserts a new project. The initial status is recorded as the first
// timeline entry so the log covers the whole lifecycle.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.Timeline == nil {
		project.Timeline = models.TimelineEntries{{
			Status:    project.Status,
			UpdatedBy: project.ClientID,
			Timestamp: now,
		}}
	}

	query := `
		INSERT INTO projects (id, client_id, name, status, brief, team, deliverables, timeline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		project.ID,
		project.ClientID,
		project.Name,
		project.Status,
		project.Brief,
		project.Team,
		project.Deliverables,
		project.Timeline,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by ID.
func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// List retrieves all projects, newest first.
func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	return r.queryProjects(ctx, query)
}

// ListByClient retrieves the projects belonging to a client, newest first.
func (r *projectRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE client_id = $1 ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, clientID)
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateStatus implements the guarded, single-statement status transition.
func (r *projectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, entry models.TimelineEntry, expectedStatus string) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline entry: %w", err)
	}

	query := `
		UPDATE projects
		SET status = $1,
		    timeline = timeline || $2::jsonb,
		    updated_at = $3
		WHERE id = $4 AND status = $5`

	tag, err := r.db.Exec(ctx, query, newStatus, entryJSON, time.Now(), id, expectedStatus)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		// Row exists but the status no longer matches: a concurrent
		// transition won the race.
		return apperrors.ErrConflict
	}

	return nil
}

// AddTeamMember appends the member to the team array.
func (r *projectRepository) AddTeamMember(ctx context.Context, id uuid.UUID, member models.ProjectMember) error {
	memberJSON, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("failed to marshal team member: %w", err)
	}

	query := `
		UPDATE projects
		SET team = team || $2::jsonb, updated_at = $3
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM jsonb_array_elements(team) e
			WHERE e->>'user_id' = $4
		  )`

	tag, err := r.db.Exec(ctx, query, id, memberJSON, time.Now(), member.UserID.String())
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		// Member already on the team; adding again is a no-op.
	}

	return nil
}

// RemoveTeamMember filters the member out of the team array.
func (r *projectRepository) RemoveTeamMember(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		UPDATE projects
		SET team = COALESCE(
			(SELECT jsonb_agg(e) FROM jsonb_array_elements(team) e WHERE e->>'user_id' <> $2),
			'[]'::jsonb),
		    updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, userID.String(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// AddDeliverable appends the deliverable to the deliverables array.
func (r *projectRepository) AddDeliverable(ctx context.Context, id uuid.UUID, deliverable models.Deliverable) error {
	deliverableJSON, err := json.Marshal(deliverable)
	if err != nil {
		return fmt.Errorf("failed to marshal deliverable: %w", err)
	}

	query := `
		UPDATE projects
		SET deliverables = deliverables || $2::jsonb, updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, deliverableJSON, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add deliverable: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// AttachDeliverableFile sets the file URL on the matching deliverable.
func (r *projectRepository) AttachDeliverableFile(ctx context.Context, id, deliverableID uuid.UUID, fileURL string) error {
	query := `
		UPDATE projects
		SET deliverables = (
			SELECT jsonb_agg(
				CASE WHEN e->>'id' = $2
				     THEN jsonb_set(e, '{file_url}', to_jsonb($3::text))
				     ELSE e
				END)
			FROM jsonb_array_elements(deliverables) e),
		    updated_at = $4
		WHERE id = $1
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(deliverables) e
			WHERE e->>'id' = $2
		  )`

	tag, err := r.db.Exec(ctx, query, id, deliverableID.String(), fileURL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to attach deliverable file: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a project document entirely.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *projectRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project existence: %w", err)
	}
	return exists, nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
