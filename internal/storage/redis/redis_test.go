package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/internal/storage/storagetest"
)

// Runs against a live server when REFWATCH_TEST_REDIS_ADDR is set.
func TestStore(t *testing.T) {
	addr := os.Getenv("REFWATCH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REFWATCH_TEST_REDIS_ADDR not set")
	}

	s, err := New(context.Background(), Config{
		Addr:   addr,
		Prefix: fmt.Sprintf("refwatch-test-%d:", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	storagetest.Run(t, s)
}

func TestNewRequiresAddr(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}
