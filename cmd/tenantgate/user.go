package main

import (
	"fmt"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/app"
	"github.com/aussiebroadwan/tenantgate/internal/gateway/domain"
	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/aussiebroadwan/tenantgate/pkg/idx"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage identity store users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var (
		dbFile      string
		pepperFile  string
		tenantID    string
		role        string
		displayName string
		password    string
	)

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user bound to a tenant",
		Long: `Create an active user. Without --password a random password is generated
and printed once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := usePepper(pepperFile); err != nil {
				return err
			}
			if dbFile == "" {
				dbFile = app.LoadConfig().DatabaseFile
			}

			generated := password == ""
			if generated {
				p, err := cryptox.GeneratePassword()
				if err != nil {
					return err
				}
				password = p
			}
			hash, err := cryptox.HashPassword(password)
			if err != nil {
				return err
			}

			st, err := app.OpenStore(dbFile)
			if err != nil {
				return err
			}
			defer st.Close()

			u := domain.User{
				ID:           idx.New().String(),
				Username:     args[0],
				PasswordHash: hash,
				DisplayName:  displayName,
				Role:         domain.NormalizeRole(role),
				TenantID:     domain.TenantID(tenantID),
				Active:       true,
			}
			if err := st.Users().CreateUser(cmd.Context(), u); err != nil {
				return fmt.Errorf("create user %q: %w", u.Username, err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "created user %s (%s) in tenant %s\n", u.Username, u.ID, u.TenantID)
			if generated {
				fmt.Fprintf(w, "password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbFile, "db", "", "identity store file (default: GATEWAY_DATABASE_FILE)")
	cmd.Flags().StringVar(&pepperFile, "pepper-file", "", "pepper file (default: GATEWAY_PEPPER_FILE)")
	cmd.Flags().StringVar(&tenantID, "tenant", string(domain.DefaultTenant), "tenant the user belongs to")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "role (user or admin)")
	cmd.Flags().StringVar(&displayName, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password (default: generated)")
	return cmd
}
