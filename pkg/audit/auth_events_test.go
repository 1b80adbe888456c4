package audit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedAuditor() (*Auditor, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return NewAuditor(zap.New(core)), logs
}

func TestLogDenied_EmitsStructuredEvent(t *testing.T) {
	auditor, logs := newObservedAuditor()

	r := httptest.NewRequest(http.MethodPatch, "/api/admin/users", nil)
	r.RemoteAddr = "203.0.113.7:51442"
	auditor.LogDenied(r, "insufficient_role", "user-123")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Authorization denied", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "insufficient_role", fields["reason"])
	assert.Equal(t, "user-123", fields["user_id"])
	assert.Equal(t, "203.0.113.7", fields["client_ip"])
	assert.Contains(t, fields["event_json"], `"event_type":"auth_denied"`)
}

func TestLogRateLimited_EmitsStructuredEvent(t *testing.T) {
	auditor, logs := newObservedAuditor()

	r := httptest.NewRequest(http.MethodPost, "/api/ai/brief", nil)
	auditor.LogRateLimited(r, "198.51.100.9")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "198.51.100.9", fields["client_ip"])
	assert.Contains(t, fields["event_json"], `"event_type":"rate_limited"`)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.4:9999"
	assert.Equal(t, "192.0.2.4", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.2")
	assert.Equal(t, "203.0.113.1", ClientIP(r))
}
