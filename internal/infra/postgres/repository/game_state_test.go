package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tLat87/VisitTours/internal/infra/postgres"
	"github.com/tLat87/VisitTours/internal/infra/postgres/repository"
	"github.com/tLat87/VisitTours/internal/persistence/persistencetest"
)

func TestGameStateRepository(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConns: 2})
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, postgres.Migrate(ctx, postgres.NewTransactor(pool)))

	persistencetest.RunKV(t, repository.NewGameStateRepository(pool))
}
