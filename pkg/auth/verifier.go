package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
)

// TokenVerifier defines the interface for JWT token validation.
// This abstraction enables testing with mock implementations.
type TokenVerifier interface {
	// Verify validates a JWT token string and returns the claims.
	// Returns apperrors.ErrExpiredToken if the token's expiry is in the
	// past, apperrors.ErrInvalidToken for anything else wrong with it.
	Verify(tokenString string) (*Claims, error)
	// Close releases any resources held by the verifier.
	Close()
}

// VerifierConfig contains configuration for the JWKS verifier.
type VerifierConfig struct {
	// EnableVerification controls whether JWT signatures are verified.
	// Set to false for local development without the identity provider.
	EnableVerification bool
	// JWKSEndpoints maps issuer URLs to their JWKS endpoint URLs.
	// Only tokens from issuers in this map are accepted.
	JWKSEndpoints map[string]string
}

// JWKSVerifier validates JWT tokens using the identity provider's JWKS
// endpoints. Whatever the provider's own validation accepted, the expiry
// claim is re-checked here against the local clock: a token at or past its
// exp is rejected even if the signature is fine.
type JWKSVerifier struct {
	endpoints map[string]keyfunc.Keyfunc
	config    *VerifierConfig
	now       func() time.Time
}

// NewJWKSVerifier creates a new verifier with the given configuration.
// If EnableVerification is true, it fetches JWKS from all configured
// endpoints. Returns an error if any JWKS endpoint fails to load.
func NewJWKSVerifier(config *VerifierConfig) (*JWKSVerifier, error) {
	v := &JWKSVerifier{
		endpoints: make(map[string]keyfunc.Keyfunc),
		config:    config,
		now:       time.Now,
	}

	if !config.EnableVerification {
		return v, nil
	}

	for issuer, jwksURL := range config.JWKSEndpoints {
		jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS client for %s: %w", issuer, err)
		}
		v.endpoints[issuer] = jwks
	}

	return v, nil
}

// Verify validates a JWT token and returns the claims.
// If verification is disabled, it parses the token without signature
// validation. Either way the expiry is checked explicitly.
func (v *JWKSVerifier) Verify(tokenString string) (*Claims, error) {
	var claims *Claims
	var err error
	if v.config.EnableVerification {
		claims, err = v.parseVerified(tokenString)
	} else {
		claims, err = v.parseUnverified(tokenString)
	}
	if err != nil {
		return nil, err
	}

	// exp is authoritative and checked against our own clock, not trusted
	// to the provider's validation alone.
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(v.now()) {
		return nil, apperrors.ErrExpiredToken
	}

	return claims, nil
}

func (v *JWKSVerifier) parseVerified(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return nil, errors.New("invalid claims type")
		}

		jwks, exists := v.endpoints[claims.Issuer]
		if !exists {
			return nil, fmt.Errorf("unauthorized issuer: %s", claims.Issuer)
		}

		return jwks.KeyfuncCtx(context.Background())(token)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// parseUnverified parses a JWT without verifying the signature.
// Used in development mode when EnableVerification is false.
func (v *JWKSVerifier) parseUnverified(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// Close releases any resources held by the verifier.
// Currently a no-op as keyfunc v3 doesn't require explicit cleanup.
func (v *JWKSVerifier) Close() {}

// Ensure JWKSVerifier implements TokenVerifier at compile time.
var _ TokenVerifier = (*JWKSVerifier)(nil)
