package main

import (
	"fmt"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/app"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var dbFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply identity store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbFile == "" {
				dbFile = app.LoadConfig().DatabaseFile
			}

			st, err := app.OpenStore(dbFile)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s\n", dbFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbFile, "db", "", "identity store file (default: GATEWAY_DATABASE_FILE)")
	return cmd
}
