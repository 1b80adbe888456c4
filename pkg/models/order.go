package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status constants. Orders are the raw client requests that precede a
// project; accepted orders get a project created from their brief.
const (
	OrderStatusNew      = "new"
	OrderStatusAccepted = "accepted"
	OrderStatusRejected = "rejected"
)

// ValidOrderStatuses contains all valid order status values.
var ValidOrderStatuses = []string{OrderStatusNew, OrderStatusAccepted, OrderStatusRejected}

// IsValidOrderStatus checks if the given order status is valid.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is a client project request submitted through the chat brief flow.
type Order struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
