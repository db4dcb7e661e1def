package main

import (
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/infrastructure/postgres"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every embedded migration that is not yet recorded in
schema_migrations. Each migration runs in its own transaction.`,
	RunE: runMigrate,
}

var migrateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedded migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := postgres.MigrationVersions()
		if err != nil {
			return err
		}
		for _, v := range versions {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	pool, err := bootstrap.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, logger)
	if err != nil {
		return err
	}

	logger.Info("migrations applied", interfaces.LogField{Key: "count", Value: applied})
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
	return nil
}
