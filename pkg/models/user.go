// Package models contains domain types for daru-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for users of the platform.
const (
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleDesigner       = "designer"
	RoleClient         = "client"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleProjectManager, RoleDesigner, RoleClient}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User status constants.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// ValidUserStatuses contains all valid user status values.
var ValidUserStatuses = []string{UserStatusActive, UserStatusInactive, UserStatusPending}

// IsValidUserStatus checks if the given user status is valid.
func IsValidUserStatus(status string) bool {
	for _, s := range ValidUserStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// User represents a platform account. Permissions are denormalized from the
// role catalog at creation time and may be overridden per-user by an admin.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserUpdates describes the mutable fields of a user roster entry.
// Nil fields are left unchanged.
type UserUpdates struct {
	Role        *string  `json:"role,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}
