package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tLat87/VisitTours/internal/repository"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog tools",
	}

	var path string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate a catalog file, or the embedded catalog when no path is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := repository.NewCatalogRepository(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d locations, %d achievements, %d challenges\n",
				len(catalog.Locations()), len(catalog.Achievements()), len(catalog.Challenges()))
			return nil
		},
	}
	validate.Flags().StringVar(&path, "path", "", "catalog JSON file")

	cmd.AddCommand(validate)
	return cmd
}
