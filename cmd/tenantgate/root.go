package main

import (
	"github.com/aussiebroadwan/tenantgate/internal/gateway/app"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tenantgate",
		Short: "Authentication and tenant routing gateway",
		Long: `tenantgate authenticates callers against a shared identity store and
serves every protected request from the caller's own tenant partition.

Configuration is read from the environment (GATEWAY_*, PORT, LOG_LEVEL, ...).

Example usage:
  tenantgate serve                          # Run the HTTP gateway
  tenantgate migrate                        # Apply identity store migrations
  tenantgate hash-password --generate       # Print a random password and its hash
  tenantgate user add alice --tenant 42     # Create a user bound to tenant 42`,
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newHashPasswordCmd(),
		newUserCmd(),
	)
	return root
}
