package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/config"
	"github.com/tLat87/VisitTours/internal/infra/storage"
	"github.com/tLat87/VisitTours/internal/logger"
	"github.com/tLat87/VisitTours/internal/repository"
)

type rootOptions struct {
	configDir string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tourctl",
		Short: "Inspect and manage stored tour progress",
		Long: `tourctl works directly against the storage backend configured for the bot.

Available commands:
  show    - Print the progress of one user
  users   - List users with stored progress
  reset   - Delete the progress of one user
  catalog - Validate a catalog file`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config", "./config", "directory containing config.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(
		newShowCmd(opts),
		newUsersCmd(opts),
		newResetCmd(opts),
		newCatalogCmd(),
	)

	return cmd
}

// env is what the storage commands share.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *repository.CatalogRepository
	backend *storage.Backend
}

func (e *env) Close() {
	if err := e.backend.Close(); err != nil {
		e.logger.Error("failed to close storage", zap.Error(err))
	}
}

func openEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	cfg, err := config.Load(opts.configDir)
	if err != nil {
		return nil, err
	}

	lg := zap.NewNop()
	if opts.verbose {
		if lg, err = logger.New(cfg); err != nil {
			return nil, err
		}
	}

	catalog, err := repository.NewCatalogRepository(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(cmd.Context(), cfg, lg)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: lg, catalog: catalog, backend: backend}, nil
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
