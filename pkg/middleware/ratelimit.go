// Package middleware provides HTTP middleware applied ahead of the
// authorization gates: request logging and per-IP rate limiting.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/audit"
)

// RateLimitStore counts requests per key within a fixed window. The in-memory
// implementation suits a single instance; multi-instance deployments inject
// the Redis-backed store so all instances share one counter.
type RateLimitStore interface {
	// Increment records a request for key and returns the total count for
	// the current window, including this request.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitConfig defines fixed-window rate limiting behavior.
type RateLimitConfig struct {
	// MaxRequests is the number of requests allowed per key per window.
	MaxRequests int
	// Window is the fixed window duration.
	Window time.Duration
	// Prefixes restricts limiting to sensitive path prefixes. Requests
	// outside these prefixes bypass the limiter entirely.
	Prefixes []string
}

// DefaultRateLimitConfig returns the limits applied to auth, admin and AI
// endpoints: 100 requests per 15 minutes per client IP.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MaxRequests: 100,
		Window:      15 * time.Minute,
		Prefixes:    []string{"/api/auth", "/api/admin", "/api/ai"},
	}
}

// RateLimit returns middleware that rejects requests over the limit with a
// 429 before authorization is attempted. The key is the client IP. auditor
// may be nil. If the store errors, the request is admitted: the limiter is an
// approximation and must not take the API down with it.
func RateLimit(store RateLimitStore, cfg *RateLimitConfig, auditor *audit.Auditor, logger *zap.Logger) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultRateLimitConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pathIsLimited(r.URL.Path, cfg.Prefixes) {
				next.ServeHTTP(w, r)
				return
			}

			key := audit.ClientIP(r)
			count, err := store.Increment(r.Context(), key, cfg.Window)
			if err != nil {
				logger.Warn("Rate limit store unavailable, admitting request",
					zap.Error(err),
					zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(cfg.MaxRequests) {
				if auditor != nil {
					auditor.LogRateLimited(r, key)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "rate_limited",
					"message": "Too many requests, try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func pathIsLimited(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// memoryEntry is one key's counter for the window starting at windowStart.
type memoryEntry struct {
	count       int64
	windowStart time.Time
}

// MemoryRateLimitStore is a process-local fixed-window counter. Expired
// entries are swept lazily on each increment, so no background goroutine is
// needed.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryRateLimitStore creates an empty in-memory store.
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Increment implements RateLimitStore.
func (s *MemoryRateLimitStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, window)

	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		entry = &memoryEntry{windowStart: now}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, nil
}

// sweep deletes entries whose window has elapsed. Caller holds the lock.
func (s *MemoryRateLimitStore) sweep(now time.Time, window time.Duration) {
	for key, entry := range s.entries {
		if now.Sub(entry.windowStart) >= window {
			delete(s.entries, key)
		}
	}
}

// Ensure MemoryRateLimitStore implements RateLimitStore at compile time.
var _ RateLimitStore = (*MemoryRateLimitStore)(nil)
