package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/config"
)

// New builds the application logger: JSON output in production, console
// output with debug level everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	if cfg.Env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return l.With(zap.String("env", cfg.Env)), nil
}
