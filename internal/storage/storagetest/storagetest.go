// Package storagetest holds a behavioral suite every storage.Store
// implementation must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/pkg/storage"
)

// Run exercises s. The store must start empty.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := s.Load(ctx, storage.KeyPublished)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, storage.KeyProposed, []byte(`[{"id":"a"}]`)))
		data, ok, err := s.Load(ctx, storage.KeyProposed)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":"a"}]`, string(data))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, storage.KeyProposed, []byte(`[]`)))
		data, ok, err := s.Load(ctx, storage.KeyProposed)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[]`, string(data))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, storage.KeyProposed))
		_, ok, err := s.Load(ctx, storage.KeyProposed)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, s.Delete(ctx, storage.KeyProposed), "deleting a missing key is not an error")
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, storage.KeyAuth, []byte(`true`)))
		require.NoError(t, s.Save(ctx, storage.KeyRevision, []byte(`"abc"`)))
		data, _, err := s.Load(ctx, storage.KeyAuth)
		require.NoError(t, err)
		assert.Equal(t, `true`, string(data))
	})
}
