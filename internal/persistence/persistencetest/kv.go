// Package persistencetest provides a conformance suite for persistence.KV
// implementations.
package persistencetest

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tLat87/VisitTours/internal/persistence"
)

// RunKV checks the behaviour every KV backend must share. Keys are prefixed
// with a unique namespace so the suite can run against shared servers.
func RunKV(t *testing.T, kv persistence.KV) {
	t.Helper()

	ns := "kvtest:" + strconv.FormatInt(time.Now().UnixNano(), 10) + ":"
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, ns+"missing")
		require.ErrorIs(t, err, persistence.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, ns+"a", `{"version":1}`))

		got, err := kv.Get(ctx, ns+"a")
		require.NoError(t, err)
		assert.Equal(t, `{"version":1}`, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, ns+"b", "first"))
		require.NoError(t, kv.Set(ctx, ns+"b", "second"))

		got, err := kv.Get(ctx, ns+"b")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	if lister, ok := kv.(persistence.Lister); ok {
		t.Run("keys", func(t *testing.T) {
			require.NoError(t, kv.Set(ctx, ns+"list:2", "x"))
			require.NoError(t, kv.Set(ctx, ns+"list:1", "x"))

			keys, err := lister.Keys(ctx, ns+"list:")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{ns + "list:1", ns + "list:2"}, keys)
		})
	}

	if deleter, ok := kv.(persistence.Deleter); ok {
		t.Run("delete", func(t *testing.T) {
			require.NoError(t, kv.Set(ctx, ns+"c", "x"))
			require.NoError(t, deleter.Delete(ctx, ns+"c"))
			require.NoError(t, deleter.Delete(ctx, ns+"c"))

			_, err := kv.Get(ctx, ns+"c")
			require.ErrorIs(t, err, persistence.ErrKeyNotFound)
		})
	}
}
