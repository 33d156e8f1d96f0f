package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tLat87/VisitTours/internal/game"
	"github.com/tLat87/VisitTours/internal/service"
)

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset USER_ID",
		Short: "Delete the progress of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			svc := service.NewProgressService(
				e.backend.KV,
				e.catalog,
				game.NewReducer(game.DefaultRules(), e.catalog),
				service.ProgressConfig{KeyPrefix: e.cfg.Storage.Key},
				e.logger,
			)
			defer svc.Close()

			if err := svc.Reset(cmd.Context(), userID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "progress of user %d reset\n", userID)
			return nil
		},
	}
}
