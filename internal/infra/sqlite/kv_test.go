package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tLat87/VisitTours/internal/persistence/persistencetest"
)

func TestKV(t *testing.T) {
	kv, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "game.db"))
	require.NoError(t, err)
	defer kv.Close()

	persistencetest.RunKV(t, kv)
}

func TestKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")
	ctx := context.Background()

	kv, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "gameData:1", `{"version":1}`))
	require.NoError(t, kv.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "gameData:1")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, got)
}
