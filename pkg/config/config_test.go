package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	writeConfigFile(t, "env: local\n")

	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "daru_engine", cfg.Database.Database)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 15, cfg.RateLimit.WindowMinutes)
	assert.Equal(t, []string{"/api/auth", "/api/admin", "/api/ai"}, cfg.RateLimit.Prefixes)
}

func TestLoad_ParsesJWKSEndpoints(t *testing.T) {
	writeConfigFile(t, `
auth:
  jwks_endpoints: "https://a.example=https://a.example/jwks.json,https://b.example=https://b.example/jwks.json"
`)

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"https://a.example": "https://a.example/jwks.json",
		"https://b.example": "https://b.example/jwks.json",
	}, cfg.Auth.JWKSEndpoints)
}

func TestLoad_RateLimitOverrides(t *testing.T) {
	writeConfigFile(t, `
rate_limit:
  max_requests: 10
  window_minutes: 1
  prefixes: "/api/auth, /api/ai"
`)

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, []string{"/api/auth", "/api/ai"}, cfg.RateLimit.Prefixes)
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host: "db.internal", Port: 5433, User: "daru",
		Password: "secret", Database: "daru_engine", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=daru password=secret dbname=daru_engine sslmode=require",
		db.ConnectionString())
}
