package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/vcs"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// fakeGitHub serves one file through a minimal contents API.
type fakeGitHub struct {
	mu      sync.Mutex
	content []byte
	sha     string
	commits int
	puts    []putRequest
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		return
	}
	if r.URL.Path != "/repos/o/r/contents/data/constants.ts" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if f.sha == "" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(contentResponse{
			SHA:      f.sha,
			Content:  base64.StdEncoding.EncodeToString(f.content)[:4] + "\n" + base64.StdEncoding.EncodeToString(f.content)[4:],
			Encoding: "base64",
		})
	case http.MethodPut:
		var req putRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.puts = append(f.puts, req)
		if req.SHA != f.sha {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"data/constants.ts does not match"}`))
			return
		}
		f.content, _ = base64.StdEncoding.DecodeString(req.Content)
		f.commits++
		f.sha = "blob" + string(rune('0'+f.commits))
		var resp putResponse
		resp.Content.SHA = f.sha
		resp.Commit.SHA = "commit" + string(rune('0'+f.commits))
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newBackend(t *testing.T, srv *httptest.Server, token string) *Backend {
	t.Helper()
	b, err := New(Config{APIURL: srv.URL, Owner: "o", Repo: "r", Path: "data/constants.ts", Branch: "main", Token: token})
	require.NoError(t, err)
	return b
}

func TestReadMissingFile(t *testing.T) {
	srv := httptest.NewServer(&fakeGitHub{})
	defer srv.Close()

	file, err := newBackend(t, srv, "tok").Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, file.Revision)
	assert.Empty(t, file.Content)
}

func TestWriteThenRead(t *testing.T) {
	fake := &fakeGitHub{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	b := newBackend(t, srv, "tok")
	ctx := context.Background()

	res, err := b.Write(ctx, []byte("export const X = 1;"), "", "msg")
	require.NoError(t, err)
	assert.Equal(t, "commit1", res.Commit)
	assert.Equal(t, "blob1", res.Revision)

	file, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "blob1", file.Revision)
	assert.Equal(t, "export const X = 1;", string(file.Content))

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "main", fake.puts[0].Branch)
	assert.Equal(t, "msg", fake.puts[0].Message)
}

func TestWriteStaleSHAIsConflict(t *testing.T) {
	fake := &fakeGitHub{content: []byte("x"), sha: "blob9"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := newBackend(t, srv, "tok").Write(context.Background(), []byte("y"), "blob1", "msg")
	assert.ErrorIs(t, err, errors.ErrConflict)
	assert.Equal(t, []byte("x"), fake.content)
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(&fakeGitHub{})
	defer srv.Close()

	_, err := newBackend(t, srv, "wrong").Read(context.Background())
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, errors.ErrNotConfigured)
}

func TestCommitterOverGitHub(t *testing.T) {
	fake := &fakeGitHub{content: []byte("old"), sha: "blob0"}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := vcs.NewCommitter(newBackend(t, srv, "tok"), nil)
	list := []refineries.Refinery{{ID: "a", Status: refineries.StatusDamaged}}
	ctx := context.Background()

	receipt, err := c.Commit(ctx, list, "blob0")
	require.NoError(t, err)
	assert.Equal(t, "blob1", receipt.Revision)
	assert.Contains(t, string(fake.content), `"id": "a"`)

	_, err = c.Commit(ctx, list, "blob0")
	assert.ErrorIs(t, err, errors.ErrConflict)
}
