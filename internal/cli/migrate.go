package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/entities"
)

// MigrateOptions are the flag overrides for a migration run. Unset values
// fall back to the environment configuration.
type MigrateOptions struct {
	BatchSize int
}

// NewMigrateCmd builds `migrate <entity>` with one subcommand per entity
// plus `all`.
func NewMigrateCmd() *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run entity migrations",
	}
	cmd.PersistentFlags().IntVarP(&opts.BatchSize, "batch-size", "b", 0, "Records per bulk insert (overrides BATCH_SIZE)")

	for _, name := range entities.Order {
		entity := name
		cmd.AddCommand(&cobra.Command{
			Use:   entity,
			Short: fmt.Sprintf("Migrate %s", entity),
			RunE: func(c *cobra.Command, args []string) error {
				return runMigration(c.Context(), opts, []string{entity})
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Migrate every entity in dependency order",
		RunE: func(c *cobra.Command, args []string) error {
			return runMigration(c.Context(), opts, entities.Order)
		},
	})

	return cmd
}
