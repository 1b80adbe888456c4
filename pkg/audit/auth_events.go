// Package audit provides structured audit logging of authorization decisions
// for SIEM consumption. Deny decisions are logged as JSON events; they are not
// persisted to a dedicated collection, process logs are the system of record.
package audit

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthEventType categorizes authorization events for filtering and alerting.
type AuthEventType string

const (
	// EventAuthDenied is logged when a gate rejects a request.
	EventAuthDenied AuthEventType = "auth_denied"
	// EventRateLimited is logged when the rate limiter rejects a request.
	EventRateLimited AuthEventType = "rate_limited"
)

// AuthEvent represents an auditable authorization decision with the context
// needed for SIEM ingestion and analysis.
type AuthEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	EventType AuthEventType `json:"event_type"`
	Reason    string        `json:"reason"`
	UserID    string        `json:"user_id,omitempty"`
	ClientIP  string        `json:"client_ip,omitempty"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Severity  string        `json:"severity"` // info, warning, critical
}

// Auditor logs authorization events. Events are logged in structured JSON
// format with appropriate severity levels.
type Auditor struct {
	logger *zap.Logger
}

// NewAuditor creates a new auditor with a dedicated logger namespace so SIEM
// pipelines can filter on it.
func NewAuditor(logger *zap.Logger) *Auditor {
	return &Auditor{logger: logger.Named("auth_audit")}
}

// LogDenied records a gate deny decision at WARN level. userID may be empty
// when the request never resolved to an identity.
func (a *Auditor) LogDenied(r *http.Request, reason, userID string) {
	event := AuthEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventAuthDenied,
		Reason:    reason,
		UserID:    userID,
		ClientIP:  ClientIP(r),
		Method:    r.Method,
		Path:      r.URL.Path,
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Authorization denied",
		zap.String("event_json", string(eventJSON)),
		zap.String("reason", reason),
		zap.String("user_id", userID),
		zap.String("client_ip", event.ClientIP),
		zap.String("path", r.URL.Path),
	)
}

// LogRateLimited records a rate limiter rejection at WARN level.
func (a *Auditor) LogRateLimited(r *http.Request, key string) {
	event := AuthEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventRateLimited,
		Reason:    "rate_limited",
		ClientIP:  key,
		Method:    r.Method,
		Path:      r.URL.Path,
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Rate limit exceeded",
		zap.String("event_json", string(eventJSON)),
		zap.String("client_ip", key),
		zap.String("path", r.URL.Path),
	)
}

// ClientIP extracts the originating client IP from a request, preferring the
// X-Forwarded-For header set by the reverse proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First address in the list is the original client.
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
