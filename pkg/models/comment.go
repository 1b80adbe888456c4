package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a discussion entry scoped to a project.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
