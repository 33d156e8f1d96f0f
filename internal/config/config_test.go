package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TELEGRAM_API_TOKEN", "DATABASE_URL", "REDIS_PASSWORD", "APP_ENV", "STORAGE_DRIVER", "GAME_SHARE_REWARD"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "gameData", cfg.Storage.Key)
	assert.Equal(t, 5, cfg.Game.VisitReward)
	assert.Equal(t, 2, cfg.Game.ShareReward)
	assert.True(t, cfg.Game.CreditRepeatVisits)
	assert.True(t, cfg.Game.CreditRepeatCompletions)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)

	_, err = cfg.TelegramToken()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
env: production
storage:
  driver: memory
game:
  visit_reward: 10
  credit_repeat_visits: false
  credit_repeat_completions: false
sessions:
  idle_ttl: 1h
`)
	t.Setenv("GAME_SHARE_REWARD", "3")
	t.Setenv("TELEGRAM_API_TOKEN", "123:abc")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Game.VisitReward)
	assert.Equal(t, 3, cfg.Game.ShareReward)
	assert.False(t, cfg.Game.CreditRepeatVisits)
	assert.False(t, cfg.Game.CreditRepeatCompletions)
	assert.Equal(t, time.Hour, cfg.Sessions.IdleTTL)
	assert.Equal(t, "secret", cfg.Redis.Password)

	token, err := cfg.TelegramToken()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", token)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown driver",
			yaml:    "storage:\n  driver: mongo\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative reward",
			yaml:    "game:\n  visit_reward: -1\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "postgres without url",
			yaml:    "storage:\n  driver: postgres\n",
			wantErr: ErrMissingEnvironmentVariables,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Load(writeConfig(t, tt.yaml))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDB_DSN(t *testing.T) {
	_, err := DB{}.DSN()
	require.ErrorIs(t, err, ErrMissingEnvironmentVariables)

	dsn, err := DB{URL: "postgres://localhost/tours"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/tours", dsn)
}
