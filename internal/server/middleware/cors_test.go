package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("allow all never sends credentials", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowAll = true
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		CORS(cfg)(next).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected *, got %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "" {
			t.Error("wildcard must not allow credentials")
		}
	})

	t.Run("named origin", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"https://admin.example"}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://admin.example")
		w := httptest.NewRecorder()
		CORS(cfg)(next).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example" {
			t.Errorf("expected echoed origin, got %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("expected credentials for a named origin")
		}
		if w.Header().Get("Access-Control-Expose-Headers") != RequestIDHeader {
			t.Error("expected the request id header to be exposed")
		}
	})

	t.Run("unknown origin", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"https://admin.example"}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://other.example")
		w := httptest.NewRecorder()
		CORS(cfg)(next).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no allow-origin, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/staging/0", nil)
		req.Header.Set("Origin", "https://admin.example")
		req.Header.Set("Access-Control-Request-Method", "PATCH")
		w := httptest.NewRecorder()
		CORS(DefaultCORSConfig())(next).ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, PATCH, DELETE, OPTIONS" {
			t.Errorf("unexpected methods %q", got)
		}
	})
}
