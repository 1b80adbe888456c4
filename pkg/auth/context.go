// Context helpers for extracting authenticated identity from request
// contexts. The auth middleware injects claims; services use these helpers
// instead of re-validating tokens.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetUserIDFromContext extracts the user ID from JWT claims in the context.
// Returns empty string if not authenticated or claims are missing.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// GetRoleFromContext extracts the caller's role from JWT claims in the context.
// Returns empty string if not authenticated.
func GetRoleFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Role
}

// GetPermissionsFromContext extracts the caller's permission set from JWT
// claims in the context. Returns nil if not authenticated.
func GetPermissionsFromContext(ctx context.Context) []string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return nil
	}
	return claims.Permissions
}

// RequireUserIDFromContext extracts the user ID from context and returns an
// error if not found. Use this when user ID is required for the operation.
func RequireUserIDFromContext(ctx context.Context) (string, error) {
	userID := GetUserIDFromContext(ctx)
	if userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// RequireUserUUIDFromContext extracts the user ID from context as a UUID and
// returns an error if not found or invalid. Use this when the actor's UUID is
// required, e.g. for timeline provenance.
func RequireUserUUIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userIDStr := GetUserIDFromContext(ctx)
	if userIDStr == "" {
		return uuid.Nil, fmt.Errorf("user ID not found in context")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	return userID, nil
}
