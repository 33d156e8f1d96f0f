package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tLat87/VisitTours/internal/game"
	"github.com/tLat87/VisitTours/internal/persistence"
	"github.com/tLat87/VisitTours/internal/service"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show USER_ID",
		Short: "Print the progress of one user",
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

			key := service.KeyFor(e.cfg.Storage.Key, userID)
			data, err := e.backend.KV.Get(cmd.Context(), key)
			if errors.Is(err, persistence.ErrKeyNotFound) {
				return fmt.Errorf("no progress stored for user %d", userID)
			}
			if err != nil {
				return err
			}

			if raw {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
				return err
			}

			codec := persistence.NewCodec(e.catalog.Achievements(), e.catalog.Challenges())
			s, err := codec.Unmarshal([]byte(data))
			if err != nil {
				return err
			}

			printState(cmd.OutOrStdout(), key, s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored JSON document")
	return cmd
}

func printState(w io.Writer, key string, s game.State) {
	p := s.Progress

	fmt.Fprintf(w, "key:          %s\n", key)
	fmt.Fprintf(w, "points:       %d\n", p.TotalPoints)
	fmt.Fprintf(w, "level:        %d\n", p.Level)
	fmt.Fprintf(w, "visited:      %v\n", p.VisitedLocations.Items())
	fmt.Fprintf(w, "challenges:   %v\n", p.CompletedChallenges.Items())
	fmt.Fprintf(w, "shares:       %d\n", p.SharesCount)

	var unlocked []string
	for _, a := range p.Achievements {
		if a.Unlocked {
			unlocked = append(unlocked, a.ID)
		}
	}
	fmt.Fprintf(w, "achievements: %v\n", unlocked)

	var pending []string
	for _, a := range s.Pending {
		pending = append(pending, a.ID)
	}
	fmt.Fprintf(w, "pending:      %v\n", pending)
}
