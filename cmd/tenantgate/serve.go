package main

import (
	"github.com/aussiebroadwan/tenantgate/internal/gateway/app"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long:  `Serve the gateway until SIGINT or SIGTERM. SIGHUP reloads the tenants file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides PORT)")
	return cmd
}
