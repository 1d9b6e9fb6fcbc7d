// Package cli wires the cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smilemigrate",
		Short: "Migrate the legacy practice database into the new Supabase schema",
		Long: `smilemigrate copies rows from the legacy Django schema into the new
Supabase/Postgres schema, entity by entity, preserving legacy ids and
resolving cross-entity references. Reruns skip already-migrated rows.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewMigrateCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewEmbedCmd())

	return rootCmd
}
