package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tLat87/VisitTours/internal/persistence"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with stored progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close()

			lister, ok := e.backend.KV.(persistence.Lister)
			if !ok {
				return fmt.Errorf("storage driver %q cannot list keys", e.backend.Driver)
			}

			prefix := e.cfg.Storage.Key + ":"
			keys, err := lister.Keys(cmd.Context(), prefix)
			if err != nil {
				return err
			}

			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimPrefix(key, prefix))
			}
			return nil
		},
	}
}
