package commands

import "github.com/spf13/cobra"

// RootCmd is the pg-portal command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pg-portal",
		Short:         "Tenant and admin portal for the PG management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(ServeCmd(), SessionCmd())

	return root
}
