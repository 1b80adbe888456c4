package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types delivered to users.
const (
	NotificationStatusChange = "status_change"
	NotificationAssignment   = "assignment"
	NotificationComment      = "comment"
	NotificationOrderUpdate  = "order_update"
)

// Notification is an in-app message for a single user. Read state is sticky:
// marking an already-read notification read again is a no-op.
type Notification struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
