package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
)

// stubVerifier resolves raw token strings from fixed maps.
type stubVerifier struct {
	Tokens  map[string]*auth.Claims
	Expired map[string]bool
}

func (v *stubVerifier) Verify(token string) (*auth.Claims, error) {
	if v.Expired[token] {
		return nil, apperrors.ErrExpiredToken
	}
	claims, ok := v.Tokens[token]
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (v *stubVerifier) Close() {}

func newAuthTestServer(t *testing.T, verifier *stubVerifier) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	authService := &stubAuthService{Tokens: verifier.Tokens, Expired: verifier.Expired}
	NewAuthHandler(verifier, authService, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func postToken(mux *http.ServeMux, token string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(ValidateTokenRequest{Token: token})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/validate-token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestValidateToken_ExpiredTokenReturns401(t *testing.T) {
	mux := newAuthTestServer(t, &stubVerifier{Expired: map[string]bool{"stale": true}})

	rec := postToken(mux, "stale")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "token_expired", body["error"])
	assert.Equal(t, "Token expirado", body["message"])
}

func TestValidateToken_InvalidTokenReturns401(t *testing.T) {
	mux := newAuthTestServer(t, &stubVerifier{})

	rec := postToken(mux, "garbage")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "token_invalid", body["error"])
}

func TestValidateToken_EchoesIdentity(t *testing.T) {
	userID := uuid.New()
	mux := newAuthTestServer(t, &stubVerifier{
		Tokens: map[string]*auth.Claims{
			"good": claimsFor(userID, models.RoleProjectManager, []string{models.PermViewProjects}),
		},
	})

	rec := postToken(mux, "good")

	require.Equal(t, http.StatusOK, rec.Code)

	var body ValidateTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Valid)
	assert.Equal(t, userID.String(), body.UserID)
	assert.Equal(t, models.RoleProjectManager, body.Role)
	assert.Equal(t, []string{models.PermViewProjects}, body.Permissions)
}

func TestValidateToken_FallsBackToCatalogPermissions(t *testing.T) {
	userID := uuid.New()
	mux := newAuthTestServer(t, &stubVerifier{
		Tokens: map[string]*auth.Claims{
			"bare": claimsFor(userID, models.RoleDesigner, nil),
		},
	})

	rec := postToken(mux, "bare")

	require.Equal(t, http.StatusOK, rec.Code)

	var body ValidateTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.PermissionsForRole(models.RoleDesigner), body.Permissions)
}

func TestValidateToken_FallsBackToAuthorizationHeader(t *testing.T) {
	userID := uuid.New()
	mux := newAuthTestServer(t, &stubVerifier{
		Tokens: map[string]*auth.Claims{
			"good": claimsFor(userID, models.RoleAdmin, nil),
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/validate-token", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body ValidateTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body.UserID)
}
