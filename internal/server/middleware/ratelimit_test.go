package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *time.Time) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := zerolog.Nop()
	rl := NewRateLimiter(ctx, limit, &logger)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		requests      int
		expectedAllow int
	}{
		{name: "within limit", limit: 10, requests: 5, expectedAllow: 5},
		{name: "at limit", limit: 10, requests: 10, expectedAllow: 10},
		{name: "exceeds limit", limit: 10, requests: 15, expectedAllow: 10},
		{name: "zero limit", limit: 0, requests: 3, expectedAllow: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.limit)
			allowed := 0
			for range tt.requests {
				if rl.Allow("192.0.2.1") {
					allowed++
				}
			}
			assert.Equal(t, tt.expectedAllow, allowed)
		})
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl, now := newTestLimiter(t, 1)

	assert.True(t, rl.Allow("192.0.2.1"))
	assert.False(t, rl.Allow("192.0.2.1"))
	assert.True(t, rl.Allow("192.0.2.2"), "limits are per IP")

	*now = now.Add(rl.window + time.Second)
	assert.True(t, rl.Allow("192.0.2.1"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl, now := newTestLimiter(t, 5)
	rl.Allow("192.0.2.1")

	*now = now.Add(3 * rl.window)
	rl.Allow("192.0.2.2")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "192.0.2.1")
	assert.Contains(t, rl.visitors, "192.0.2.2")
}

func TestRateLimitMiddlewareForwardedFor(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/refineries", nil)
		req.RemoteAddr = "10.0.0.1:4321"
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("").Code)

	rec := send("")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("203.0.113.7, 10.0.0.1").Code, "first forwarded hop is the client")
}
