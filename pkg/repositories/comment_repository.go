package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daru-studio/daru-engine/pkg/database"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// CommentRepository defines the interface for project comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error)
}

// commentRepository implements CommentRepository using PostgreSQL.
type commentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = time.Now()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	query := `
		INSERT INTO comments (id, project_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.ProjectID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListByProject retrieves a project's comments in posting order.
func (r *commentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT id, project_id, author_id, body, created_at
		FROM comments
		WHERE project_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// Ensure commentRepository implements CommentRepository at compile time.
var _ CommentRepository = (*commentRepository)(nil)
