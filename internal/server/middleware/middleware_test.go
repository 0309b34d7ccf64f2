package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/oskars/refinerywatch/internal/server/metrics"
	"github.com/oskars/refinerywatch/pkg/logging"
)

func TestChainExecutionOrder(t *testing.T) {
	var log []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log = append(log, "start-"+name)
				next.ServeHTTP(w, r)
				log = append(log, "end-"+name)
			})
		}
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		log = append(log, "handler")
	})

	Chain(mark("1"), mark("2"))(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := "start-1,start-2,handler,end-2,end-1"
	if got := strings.Join(log, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		if len(seen) != 36 {
			t.Errorf("expected a UUID, got %q", seen)
		}
		if w.Header().Get(RequestIDHeader) != seen {
			t.Errorf("header %q does not match context %q", w.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if seen != "abc-123" {
			t.Errorf("expected caller id, got %q", seen)
		}
	})
}

func TestLoggerRecordsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Chain(RequestID, Logger(&logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"status":418`, `"request_id":"req-1"`, `"message":"inside handler"`, `"path":"/api/v1/stats"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()
	handler := Recovery(&logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	handler := Metrics(m, "/api/v1")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/refineries/ryazan", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/refineries/volgograd", nil))

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/v1/refineries/{id}", "GET", "404"))
	if got != 2 {
		t.Errorf("expected 2 requests on the collapsed route, got %v", got)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/api/v1/refineries":         "/api/v1/refineries",
		"/api/v1/refineries/kirishi": "/api/v1/refineries/{id}",
		"/api/v1/staging/3":          "/api/v1/staging/{n}",
		"/api/v1/staging/3/urls/0":   "/api/v1/staging/{n}/urls/{n}",
		"/health":                    "/health",
		"/api/commit-refineries":     "/api/commit-refineries",
	}
	for path, want := range tests {
		if got := RouteLabel(path, "/api/v1"); got != want {
			t.Errorf("RouteLabel(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := wrap(rec)
	_, _ = rw.Write([]byte("ok"))
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusOK {
		t.Errorf("expected 200 after implicit header, got %d", rw.statusCode)
	}
	rw.Flush()
	if !rec.Flushed {
		t.Error("expected Flush to reach the recorder")
	}
}

func TestRateLimiterWindow(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := &RateLimiter{visitors: map[string]*visitor{}, limit: 2, window: time.Minute, now: func() time.Time { return now }, logger: &logger}

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("other IPs have their own bucket")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow("1.1.1.1") {
		t.Error("bucket should refill after the window")
	}

	now = now.Add(5 * time.Minute)
	rl.sweep()
	if len(rl.visitors) != 0 {
		t.Errorf("expected idle visitors to be swept, have %d", len(rl.visitors))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	logger := zerolog.Nop()
	rl := &RateLimiter{visitors: map[string]*visitor{}, limit: 1, window: time.Minute, now: time.Now, logger: &logger}
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if _, ok := rl.visitors["9.9.9.9"]; !ok {
		t.Error("expected the first forwarded hop to be the key")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	if got := clientIP(req); got != "192.0.2.7" {
		t.Errorf("expected host without port, got %s", got)
	}
}
