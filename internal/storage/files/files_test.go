package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/storage/storagetest"
	"github.com/oskars/refinerywatch/pkg/errors"
)

func TestStore(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	storagetest.Run(t, s)
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "admin_auth", []byte("true")))
	data, err := os.ReadFile(filepath.Join(dir, "admin_auth.json"))
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestRejectsPathKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	err = s.Save(context.Background(), "../escape", []byte("x"))
	assert.True(t, errors.IsValidationError(err))
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
