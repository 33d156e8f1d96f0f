package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid config")
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`          // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`            // Telegram API token loaded from environment
	CatalogPath      string   `mapstructure:"catalog_path"` // optional catalog JSON overriding the embedded one
	Storage          Storage  `mapstructure:"storage"`      // where progress snapshots are kept
	DB               DB       `mapstructure:"database"`     // database configuration section
	Redis            Redis    `mapstructure:"redis"`        // redis configuration section
	Game             Game     `mapstructure:"game"`         // reward rules
	Sessions         Sessions `mapstructure:"sessions"`     // per-user session lifecycle
	Metrics          Metrics  `mapstructure:"metrics"`      // prometheus endpoint
}

// Storage selects the persistence backend.
type Storage struct {
	Driver     string `mapstructure:"driver" validate:"oneof=sqlite postgres redis memory"`
	Key        string `mapstructure:"key" validate:"required"` // key prefix, the user id is appended
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections" validate:"gte=1"`  // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime" validate:"gte=0"` // maximum lifetime of a single connection
}

// Redis contains redis connection parameters.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"-"` // loaded from environment
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Game holds the point rewards of fixed-reward actions.
type Game struct {
	VisitReward             int  `mapstructure:"visit_reward" validate:"gte=0"`
	ShareReward             int  `mapstructure:"share_reward" validate:"gte=0"`
	CreditRepeatVisits      bool `mapstructure:"credit_repeat_visits"`
	CreditRepeatCompletions bool `mapstructure:"credit_repeat_completions"`
}

// Sessions controls how long idle user sessions stay in memory.
type Sessions struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl" validate:"gt=0"`
	EvictSchedule string        `mapstructure:"evict_schedule" validate:"required"` // cron spec
}

// Metrics configures the prometheus HTTP endpoint. An empty address disables it.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// TelegramToken returns the bot token if it is configured.
func (c *Config) TelegramToken() (string, error) {
	if c.TelegramAPIToken == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return c.TelegramAPIToken, nil
}

// Load reads configuration from config files, an optional .env file and
// environment variables. Config files are looked up in configDirs, or in
// ./config when none is given.
func Load(configDirs ...string) (*Config, error) {
	// Values from .env never override variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configDirs) == 0 {
		configDirs = []string{"./config"}
	}
	for _, dir := range configDirs {
		v.AddConfigPath(dir)
	}

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("catalog_path", "")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.key", "gameData")
	v.SetDefault("storage.sqlite_path", "data/visittours.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("game.visit_reward", 5)
	v.SetDefault("game.share_reward", 2)
	v.SetDefault("game.credit_repeat_visits", true)
	v.SetDefault("game.credit_repeat_completions", true)
	v.SetDefault("sessions.idle_ttl", "30m")
	v.SetDefault("sessions.evict_schedule", "@every 5m")
	v.SetDefault("metrics.addr", ":9090")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Storage.Driver == DriverPostgres && c.DB.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL is required for the postgres driver", ErrMissingEnvironmentVariables)
	}

	return nil
}
