package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates the root command tree and runs it.
func Execute(version, commit string) error {
	return newRootCmd(version, commit).Execute()
}

func newRootCmd(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "ShopIT account and session service",
		Long: `Storefront serves the ShopIT account API: registration, cookie and bearer
sessions, password recovery by email and admin user management.

Configuration comes from the environment, optionally seeded from a .env file
(ENV_FILE overrides the path).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newVersionCmd(version, commit))

	return cmd
}

func newVersionCmd(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("storefront %s (%s)\n", version, commit)
		},
	}
}
