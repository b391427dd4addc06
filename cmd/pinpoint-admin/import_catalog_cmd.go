package main

import (
	"fmt"

	"github.com/spf13/cobra"

	machinesseed "github.com/pinpoint-collective/pinpoint/modules/machines/seed"
)

func newImportCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-catalog <path>",
		Short: "Upsert machine models from a TOML catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, pool, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := machinesseed.CatalogSeedFunc(args[0])(ctx, app); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported catalog %s\n", args[0])
			return nil
		},
	}
}
