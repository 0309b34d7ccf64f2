package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/server/cache"
	"github.com/oskars/refinerywatch/internal/server/events"
	"github.com/oskars/refinerywatch/internal/storage/memory"
	"github.com/oskars/refinerywatch/internal/vcs"
	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

func testRefineries() []refineries.Refinery {
	return []refineries.Refinery{
		{ID: "ryazan", Name: "Ryazan", Lat: 54.6, Lng: 39.7, Status: refineries.StatusOperational, Description: "Running"},
		{ID: "tuapse", Name: "Tuapse", Lat: 44.1, Lng: 39.1, Status: refineries.StatusOffline, Description: "Port strike"},
	}
}

// newMockApplication returns an application backed by an in-memory client
// that commits to an in-memory backend.
func newMockApplication(t *testing.T) (*application.Mock, *vcs.MemoryBackend) {
	t.Helper()

	backend := vcs.NewMemoryBackend()
	committer := vcs.NewCommitter(backend, nil)
	client, err := refinerywatch.New(context.Background(),
		refinerywatch.WithStore(memory.New()),
		refinerywatch.WithInitialRefineries(testRefineries()),
		refinerywatch.WithCommitter(committer),
	)
	require.NoError(t, err)

	return &application.Mock{
		ClientFunc: func(context.Context) (refinerywatch.Client, error) { return client, nil },
		VCSCommitterFunc: func(context.Context) (commit.Committer, error) {
			return committer, nil
		},
	}, backend
}

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server, *vcs.MemoryBackend) {
	t.Helper()

	app, backend := newMockApplication(t)
	srv, err := New(app, cfg)
	require.NoError(t, err)
	srv.Start()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, ts, backend
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	return cfg
}

// login returns the session cookies of a successful operator login.
func login(t *testing.T, ts *httptest.Server) []*http.Cookie {
	t.Helper()
	body := strings.NewReader(`{"username":"admin","password":"test"}`)
	resp, err := http.Post(ts.URL+"/api/v1/login", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Cookies())
	return resp.Cookies()
}

func send(t *testing.T, method, url string, body any, cookies []*http.Cookie, header http.Header) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// TestServerInitialization tests that New completes without blocking when
// transports subscribe before the broker runs.
func TestServerInitialization(t *testing.T) {
	app, _ := newMockApplication(t)

	done := make(chan struct{})
	var srv *Server
	var newErr error
	go func() {
		srv, newErr = New(app, testConfig())
		close(done)
	}()

	select {
	case <-done:
		require.NoError(t, newErr)
		require.NotNil(t, srv)
		assert.Equal(t, 2, srv.Broker().SubscriberCount())
	case <-time.After(5 * time.Second):
		t.Fatal("server.New() deadlocked - did not complete within 5 seconds")
	}

	// never started, so shutdown returns at once
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestServerNewFailsWithoutClient(t *testing.T) {
	_, err := New(&application.Mock{}, testConfig())
	assert.Error(t, err)
}

func TestShutdownStopsServices(t *testing.T) {
	app, _ := newMockApplication(t)
	srv, err := New(app, testConfig())
	require.NoError(t, err)
	srv.Start()
	srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}

func TestPublicRoutes(t *testing.T) {
	_, ts, _ := newTestServer(t, testConfig())

	tests := []struct {
		path   string
		status int
	}{
		{"/health", http.StatusOK},
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/ready", http.StatusOK},
		{"/api/v1/refineries", http.StatusOK},
		{"/api/v1/refineries/ryazan", http.StatusOK},
		{"/api/v1/refineries/nowhere", http.StatusNotFound},
		{"/api/v1/pipelines", http.StatusOK},
		{"/api/v1/stats", http.StatusOK},
		{"/api/v1/export", http.StatusOK},
		{"/api/v1/session", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/favicon.ico", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := send(t, http.MethodGet, ts.URL+tt.path, nil, nil, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestEditingRoutesRequireSession(t *testing.T) {
	_, ts, _ := newTestServer(t, testConfig())

	resp := send(t, http.MethodGet, ts.URL+"/api/v1/staging", nil, nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var env struct {
		Error struct {
			DismissAfterMs int64 `json:"dismiss_after_ms"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, int64(3000), env.Error.DismissAfterMs)

	resp = send(t, http.MethodPost, ts.URL+"/api/v1/publish", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookies := login(t, ts)
	resp = send(t, http.MethodGet, ts.URL+"/api/v1/staging", nil, cookies, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, http.MethodPost, ts.URL+"/api/v1/logout", nil, cookies, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = send(t, http.MethodGet, ts.URL+"/api/v1/staging", nil, resp.Cookies(), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Send(e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestPublishBroadcastsAndInvalidates(t *testing.T) {
	srv, ts, backend := newTestServer(t, testConfig())
	rec := &recorder{}
	srv.Broker().Subscribe(rec)

	// warm the cache
	send(t, http.MethodGet, ts.URL+"/api/v1/stats", nil, nil, nil)
	_, ok := srv.Cache().Get(cache.KeyStats)
	require.True(t, ok)

	cookies := login(t, ts)
	resp := send(t, http.MethodPatch, ts.URL+"/api/v1/staging/0",
		map[string]any{"field": "status", "value": "damaged"}, cookies, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, http.MethodPost, ts.URL+"/api/v1/publish", nil, cookies, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, ok = srv.Cache().Get(cache.KeyStats)
	assert.False(t, ok)
	assert.Len(t, backend.Commits(), 1)

	require.Eventually(t, func() bool {
		return len(rec.types()) >= 4
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []events.EventType{
		events.StagingChanged,
		events.RefineryUpdated,
		events.StagingChanged,
		events.PublishCompleted,
	}, rec.types()[:4])
}

func TestCommitProxy(t *testing.T) {
	cfg := testConfig()
	cfg.AuthEnabled = true
	cfg.APIKey = "s3cret"
	_, ts, backend := newTestServer(t, cfg)

	body := commit.Request{Refineries: testRefineries()}

	resp := send(t, http.MethodPost, ts.URL+"/api/v1/commit-refineries", body, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	key := http.Header{"X-Api-Key": []string{"s3cret"}}
	resp = send(t, http.MethodPost, ts.URL+"/api/v1/commit-refineries", body, nil, key)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ok commit.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ok))
	assert.True(t, ok.Success)

	// legacy path, bearer token
	bearer := http.Header{"Authorization": []string{"Bearer s3cret"}}
	body.Revision = ok.Revision
	resp = send(t, http.MethodPost, ts.URL+"/api/commit-refineries", body, nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, backend.Commits(), 2)

	// the first revision is stale now
	resp = send(t, http.MethodPost, ts.URL+"/api/commit-refineries", body, nil, bearer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMiddlewareHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.CORSEnabled = true
	cfg.CORSOrigins = []string{"https://refinery.watch"}
	_, ts, _ := newTestServer(t, cfg)

	resp := send(t, http.MethodGet, ts.URL+"/api/v1/stats", nil, nil,
		http.Header{"Origin": []string{"https://refinery.watch"}})
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "https://refinery.watch", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = send(t, http.MethodGet, ts.URL+"/metrics", nil, nil, nil)
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `refwatch_http_requests_total{method="GET",route="/api/v1/stats",status_code="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 2
	_, ts, _ := newTestServer(t, cfg)

	for range 2 {
		resp := send(t, http.MethodGet, ts.URL+"/health", nil, nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := send(t, http.MethodGet, ts.URL+"/health", nil, nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCommitProxyRejectsOtherMethods(t *testing.T) {
	_, ts, _ := newTestServer(t, testConfig())

	for _, path := range []string{"/api/v1/commit-refineries", "/api/commit-refineries"} {
		t.Run(path, func(t *testing.T) {
			resp := send(t, http.MethodGet, ts.URL+path, nil, nil, nil)
			require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))

			var env struct {
				Error struct {
					Code    string `json:"code"`
					Details string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
			assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)
			assert.Contains(t, env.Error.Details, "GET")
		})
	}
}
