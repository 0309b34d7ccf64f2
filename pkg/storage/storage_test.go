package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/storage/memory"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	updates := []refineries.Update{{ID: "a", Status: refineries.StatusDamaged, IncidentVideoURLs: []string{}}}
	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyProposed, updates))

	var got []refineries.Update
	ok, err := storage.LoadJSON(ctx, s, storage.KeyProposed, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, updates, got)

	ok, err = storage.LoadJSON(ctx, s, storage.KeyPublished, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadOrDefaultFallsBackOnMalformed(t *testing.T) {
	ctx := context.Background()
	tl := logging.NewTestLogger(t)
	ctx = logging.WithLogger(ctx, tl.Logger)

	s := memory.New()
	require.NoError(t, s.Save(ctx, storage.KeyPublished, []byte("{not json")))

	def := []refineries.Refinery{{ID: "default"}}
	got := storage.LoadOrDefault(ctx, s, storage.KeyPublished, def)
	assert.Equal(t, def, got)
	tl.AssertContains(t, "Ignoring unreadable persisted state")

	var parseErr *errors.ParseError
	_, err := storage.LoadJSON(ctx, s, storage.KeyPublished, &got)
	assert.True(t, errors.As(err, &parseErr))
}

func TestDeleteKeys(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Save(ctx, storage.KeyPublished, []byte("[]")))
	require.NoError(t, storage.Delete(ctx, s, storage.KeyPublished, storage.KeyProposed))

	_, ok, err := s.Load(ctx, storage.KeyPublished)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveJSONWrapsOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("raw backend error", func(t *testing.T) {
		s := memory.New()
		s.FailSave = context.Canceled
		err := storage.SaveJSON(ctx, s, storage.KeyProposed, []refineries.Update{})

		var ioErr *errors.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, strings.Count(err.Error(), "IO error"), err.Error())
	})

	t.Run("typed backend error", func(t *testing.T) {
		typed := errors.WrapIO("write", "/var/lib/refwatch/state.json", context.DeadlineExceeded)
		s := memory.New()
		s.FailSave = typed
		err := storage.SaveJSON(ctx, s, storage.KeyProposed, []refineries.Update{})
		assert.Same(t, typed, err)
	})
}
