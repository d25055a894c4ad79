package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var (
		uniqueActiveSlot bool
		dryRun           bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := database.MigrateOptions{UniqueActiveSlot: uniqueActiveSlot}
			if dryRun {
				for _, v := range database.Migrations(opts) {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				}
				return nil
			}

			db, err := database.Open(dbOptions(config.LoadDB()))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			applied, err := database.Migrate(ctx, db, opts)
			if err != nil {
				return err
			}
			zap.L().Info("migrations applied", zap.Strings("versions", applied))
			return nil
		},
	}

	cmd.Flags().BoolVar(&uniqueActiveSlot, "unique-active-slot", false,
		"add the unique index that rejects two active reservations for one table slot")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the migration plan without connecting")
	return cmd
}
