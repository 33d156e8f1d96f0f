package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tLat87/VisitTours/internal/infra/postgres"
	"github.com/tLat87/VisitTours/internal/persistence"
)

// GameStateRepository stores serialized game state snapshots keyed by name.
type GameStateRepository struct {
	db postgres.DBTX
}

// NewGameStateRepository creates a new GameStateRepository.
func NewGameStateRepository(db postgres.DBTX) *GameStateRepository {
	return &GameStateRepository{db: db}
}

// Get returns the snapshot stored under key.
func (r *GameStateRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM game_state WHERE key = $1`

	var value string
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", persistence.ErrKeyNotFound
		}
		return "", fmt.Errorf("get game state: %w", err)
	}

	return value, nil
}

// Set creates or replaces the snapshot stored under key.
func (r *GameStateRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO game_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert game state: %w", err)
	}

	return nil
}

// Delete removes the snapshot stored under key. Deleting a missing key is not an error.
func (r *GameStateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM game_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete game state: %w", err)
	}
	return nil
}

// Keys lists stored keys starting with prefix, ordered by key.
func (r *GameStateRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT key FROM game_state WHERE starts_with(key, $1) ORDER BY key`

	rows, err := r.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list game state keys: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan game state keys: %w", err)
	}

	return keys, nil
}
