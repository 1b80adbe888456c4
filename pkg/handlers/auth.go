package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// ValidateTokenRequest for POST body. When Token is empty the validator
// falls back to the Authorization header or session cookie.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is returned for an accepted token.
type ValidateTokenResponse struct {
	Valid       bool     `json:"valid"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AuthHandler exposes explicit token validation for frontends. The route is
// not gated: it is the validator.
type AuthHandler struct {
	verifier    auth.TokenVerifier
	authService auth.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(verifier auth.TokenVerifier, authService auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{verifier: verifier, authService: authService, logger: logger}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/validate-token", h.ValidateToken)
}

// ValidateToken validates the token from the request body, or from the
// Authorization header or session cookie when the body carries none, and
// echoes the resolved identity. Expired tokens are reported distinctly so
// clients can prompt for re-login. The permission set falls back to the role
// catalog when the token carries none.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req ValidateTokenRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	var claims *auth.Claims
	var err error
	if req.Token != "" {
		claims, err = h.verifier.Verify(req.Token)
	} else {
		claims, _, err = h.authService.ValidateRequest(r)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrExpiredToken) {
			if err := ErrorResponse(w, http.StatusUnauthorized, "token_expired", "Token expirado"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		if err := ErrorResponse(w, http.StatusUnauthorized, "token_invalid", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	permissions := claims.Permissions
	if len(permissions) == 0 {
		permissions = models.PermissionsForRole(claims.Role)
	}

	if err := WriteJSON(w, http.StatusOK, ValidateTokenResponse{
		Valid:       true,
		UserID:      claims.Subject,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: permissions,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
