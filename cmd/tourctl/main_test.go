package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tLat87/VisitTours/internal/infra/sqlite"
	"github.com/tLat87/VisitTours/internal/persistence"
	"github.com/tLat87/VisitTours/internal/repository"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seed stores progress of user 42 in a fresh sqlite database and points
// the configuration at it.
func seed(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "progress.db")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_SQLITE_PATH", dbPath)

	catalog, err := repository.NewCatalogRepository("")
	require.NoError(t, err)
	codec := persistence.NewCodec(catalog.Achievements(), catalog.Challenges())

	s := codec.Default()
	s.Progress.AddPoints(35)
	s.Progress.VisitedLocations, _ = s.Progress.VisitedLocations.With("4")
	data, err := codec.Marshal(s)
	require.NoError(t, err)

	kv, err := sqlite.Open(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "gameData:42", string(data)))
	require.NoError(t, kv.Close())

	return t.TempDir()
}

func TestCatalogValidate(t *testing.T) {
	out, err := execute(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Equal(t, "catalog ok: 9 locations, 8 achievements, 13 challenges\n", out)

	bad := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"locations":[]}`), 0o600))

	_, err = execute(t, "catalog", "validate", "--path", bad)
	require.ErrorIs(t, err, repository.ErrInvalidCatalog)
}

func TestShowUsersReset(t *testing.T) {
	configDir := seed(t)

	out, err := execute(t, "--config", configDir, "users")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	out, err = execute(t, "--config", configDir, "show", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "points:       35")
	assert.Contains(t, out, "visited:      [4]")

	out, err = execute(t, "--config", configDir, "show", "42", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalPoints":35`)

	_, err = execute(t, "--config", configDir, "show", "abc")
	require.Error(t, err)

	out, err = execute(t, "--config", configDir, "reset", "42")
	require.NoError(t, err)
	assert.Equal(t, "progress of user 42 reset\n", out)

	_, err = execute(t, "--config", configDir, "show", "42")
	require.ErrorContains(t, err, "no progress stored")
}
