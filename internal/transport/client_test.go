package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/pkg/errors"
)

func TestJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"commit":"abc"}`))
	}))
	defer srv.Close()

	c := New("proxy", WithAuth(BearerAuth{}, "secret"), WithHeader("X-GitHub-Api-Version", "2022-11-28"))
	var out struct {
		Commit string `json:"commit"`
	}
	require.NoError(t, c.JSON(context.Background(), http.MethodPost, srv.URL, map[string]string{"a": "b"}, &out))
	assert.Equal(t, "abc", out.Commit)
}

func TestJSONErrorBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string error", `{"error":"Failed to commit to GitHub","details":"boom"}`, "Failed to commit to GitHub: boom"},
		{"nested error", `{"error":{"message":"bad"}}`, "bad"},
		{"message", `{"message":"Not Found"}`, "Not Found"},
		{"plain", `oops`, "oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New("proxy").JSON(context.Background(), http.MethodGet, srv.URL, nil, nil)
			var apiErr *errors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New("proxy").JSON(context.Background(), http.MethodGet, url, nil, nil)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestNoCredentialSendsNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-API-Key"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	require.NoError(t, New("x", WithAuth(HeaderAuth{Header: "X-API-Key"}, "")).JSON(context.Background(), http.MethodGet, srv.URL, nil, nil))
}
