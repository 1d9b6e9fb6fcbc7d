package cli

import (
	"github.com/spf13/cobra"
)

// NewEmbedCmd builds `embed run`, the optional post-migration queue
// worker. Separate from migrate on purpose: queue processing is never
// part of a migration's success criteria.
func NewEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embedding queue operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Drain the embedding queue once",
		RunE: func(c *cobra.Command, args []string) error {
			return runEmbedWorker(c.Context())
		},
	})

	return cmd
}
