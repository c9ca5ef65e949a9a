// root.go - Root command and entry point

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// RootCmd builds the store-manager command tree. Running it without a
// subcommand starts the server.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "store-manager",
		Short:        "Store manager API server",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		ServeCmd(),
		CreateOwnerCmd(),
	)

	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return RootCmd().ExecuteContext(ctx)
}
