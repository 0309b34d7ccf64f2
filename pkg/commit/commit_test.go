package commit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

func TestClientCommit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "k", r.Header.Get("X-API-Key"))
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Refineries, 1)
		assert.Equal(t, "rev1", req.Revision)
		_ = json.NewEncoder(w).Encode(Response{Success: true, Commit: "sha2", Revision: "rev2"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithAPIKey("k"))
	require.NoError(t, err)
	receipt, err := c.Commit(context.Background(), []refineries.Refinery{{ID: "a"}}, "rev1")
	require.NoError(t, err)
	assert.Equal(t, &Receipt{Commit: "sha2", Revision: "rev2"}, receipt)
}

func TestClientRejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		outcome Outcome
	}{
		{"server error", http.StatusInternalServerError, OutcomeRejected},
		{"bad request", http.StatusBadRequest, OutcomeRejected},
		{"conflict", http.StatusConflict, OutcomeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to commit to GitHub"})
			}))
			defer srv.Close()

			c, err := NewClient(srv.URL)
			require.NoError(t, err)
			_, err = c.Commit(context.Background(), nil, "")

			var rejected *RejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, tt.status, rejected.StatusCode)
			assert.Equal(t, "Failed to commit to GitHub", rejected.Message)
			assert.Equal(t, tt.outcome, Classify(err))
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)
	_, err = c.Commit(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, OutcomeUnreachable, Classify(err))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeCommitted, Classify(nil))
	_, err := Disabled{}.Commit(context.Background(), nil, "")
	assert.Equal(t, OutcomeDisabled, Classify(err))
	assert.Equal(t, OutcomeConflict, Classify(errors.NewConflictError("x", "a", "b")))
	assert.Equal(t, OutcomeRejected, Classify(errors.New("other")))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, errors.ErrNotConfigured)
}
