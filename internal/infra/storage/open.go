// Package storage opens the persistence backend selected by configuration.
package storage

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/config"
	"github.com/tLat87/VisitTours/internal/infra/memory"
	"github.com/tLat87/VisitTours/internal/infra/postgres"
	"github.com/tLat87/VisitTours/internal/infra/postgres/repository"
	"github.com/tLat87/VisitTours/internal/infra/redis"
	"github.com/tLat87/VisitTours/internal/infra/sqlite"
	"github.com/tLat87/VisitTours/internal/persistence"
)

// Backend is an opened KV together with the function releasing it.
type Backend struct {
	Driver string
	KV     persistence.KV
	close  func() error
}

// Close releases the connections held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the backend named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	driver := cfg.Storage.Driver

	switch driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, progress is lost on restart")
		return &Backend{Driver: driver, KV: memory.NewKV()}, nil

	case config.DriverSQLite:
		kv, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite storage", zap.String("path", cfg.Storage.SQLitePath))
		return &Backend{Driver: driver, KV: kv, close: kv.Close}, nil

	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, postgres.NewTransactor(pool)); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		logger.Info("using postgres storage")
		return &Backend{
			Driver: driver,
			KV:     repository.NewGameStateRepository(pool),
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverRedis:
		kv, err := redis.Connect(ctx, &goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("using redis storage", zap.String("addr", cfg.Redis.Addr))
		return &Backend{Driver: driver, KV: kv, close: kv.Close}, nil

	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, driver)
	}
}
