package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// Gate is a composable authorization check. Gates wrap a handler and either
// admit the request to it or write a response themselves. Route guards are
// built by chaining gates; the first gate to reject short-circuits the rest.
type Gate func(http.HandlerFunc) http.HandlerFunc

// Chain composes gates into a single Gate, applied outermost-first:
// Chain(a, b)(h) runs a, then b, then h.
func Chain(gates ...Gate) Gate {
	return func(next http.HandlerFunc) http.HandlerFunc {
		for i := len(gates) - 1; i >= 0; i-- {
			next = gates[i](next)
		}
		return next
	}
}

// DenyAuditor records authorization deny decisions. The audit package's
// Auditor satisfies this via Go's implicit interfaces.
type DenyAuditor interface {
	LogDenied(r *http.Request, reason, userID string)
}

// Middleware provides HTTP authentication and authorization gates.
// It is thin and delegates token validation to AuthService.
type Middleware struct {
	authService AuthService
	auditor     DenyAuditor
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware. auditor may be nil to disable
// audit logging of deny decisions.
func NewMiddleware(authService AuthService, auditor DenyAuditor, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		auditor:     auditor,
		logger:      logger,
	}
}

// RequireAuth validates the JWT and puts claims and raw token in the request
// context for downstream gates and handlers. Expired tokens are reported
// distinctly from invalid ones.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateRequest(r)
		if err != nil {
			if errors.Is(err, apperrors.ErrExpiredToken) {
				m.deny(r, "token_expired", "")
				m.unauthorized(w, "token_expired", "Token expirado")
				return
			}
			m.deny(r, "token_invalid", "")
			m.unauthorized(w, "token_invalid", "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// RequireRoles admits the request only if the resolved role is one of the
// allowed roles. Must run after RequireAuth.
func (m *Middleware) RequireRoles(roles ...string) Gate {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || claims == nil {
				m.deny(r, "no_claims", "")
				m.unauthorized(w, "token_invalid", "Authentication required")
				return
			}

			if !allowed[claims.Role] {
				m.logger.Warn("Role gate rejected request",
					zap.String("role", claims.Role),
					zap.String("uid", claims.Subject),
					zap.String("path", r.URL.Path))
				m.deny(r, "insufficient_role", claims.Subject)
				m.forbidden(w, "Insufficient role")
				return
			}

			next(w, r)
		}
	}
}

// RequirePermissions admits the request only if every required permission is
// present in the resolved permission set. The check short-circuits on the
// first missing permission. Must run after RequireAuth.
func (m *Middleware) RequirePermissions(perms ...string) Gate {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || claims == nil {
				m.deny(r, "no_claims", "")
				m.unauthorized(w, "token_invalid", "Authentication required")
				return
			}

			for _, required := range perms {
				if !models.Can(claims.Role, claims.Permissions, required) {
					m.logger.Warn("Permission gate rejected request",
						zap.String("missing_permission", required),
						zap.String("role", claims.Role),
						zap.String("uid", claims.Subject),
						zap.String("path", r.URL.Path))
					m.deny(r, "insufficient_permission", claims.Subject)
					m.forbidden(w, "Insufficient permissions")
					return
				}
			}

			next(w, r)
		}
	}
}

func (m *Middleware) deny(r *http.Request, reason, userID string) {
	if m.auditor != nil {
		m.auditor.LogDenied(r, reason, userID)
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": message,
	})
}
