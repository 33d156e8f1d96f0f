package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/config"
	"github.com/tLat87/VisitTours/internal/persistence"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{
			name: "memory",
			cfg:  config.Config{Storage: config.Storage{Driver: config.DriverMemory}},
		},
		{
			name: "sqlite",
			cfg: config.Config{Storage: config.Storage{
				Driver:     config.DriverSQLite,
				SQLitePath: filepath.Join(t.TempDir(), "game.db"),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := Open(ctx, &tt.cfg, zap.NewNop())
			require.NoError(t, err)
			defer backend.Close()

			assert.Equal(t, tt.cfg.Storage.Driver, backend.Driver)

			_, err = backend.KV.Get(ctx, "gameData:1")
			require.ErrorIs(t, err, persistence.ErrKeyNotFound)
			require.NoError(t, backend.KV.Set(ctx, "gameData:1", "{}"))
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, &config.Config{Storage: config.Storage{Driver: "mongo"}}, zap.NewNop())
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = Open(ctx, &config.Config{Storage: config.Storage{Driver: config.DriverPostgres}}, zap.NewNop())
	require.ErrorIs(t, err, config.ErrMissingEnvironmentVariables)
}
