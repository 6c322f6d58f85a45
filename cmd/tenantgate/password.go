package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/tenantgate/internal/gateway/app"
	"github.com/aussiebroadwan/tenantgate/pkg/cryptox"
	"github.com/spf13/cobra"
)

func newHashPasswordCmd() *cobra.Command {
	var (
		pepperFile string
		generate   bool
	)

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the argon2id hash of a password",
		Long: `Hash a password with the gateway's pepper. The password is taken from the
argument, or read from stdin when omitted. With --generate a random password
is created and printed above its hash.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := usePepper(pepperFile); err != nil {
				return err
			}

			var password string
			switch {
			case generate:
				p, err := cryptox.GeneratePassword()
				if err != nil {
					return err
				}
				password = p
				fmt.Fprintln(cmd.OutOrStdout(), password)
			case len(args) == 1:
				password = args[0]
			default:
				p, err := readLine(cmd)
				if err != nil {
					return err
				}
				password = p
			}

			hash, err := cryptox.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&pepperFile, "pepper-file", "", "pepper file (default: GATEWAY_PEPPER_FILE)")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random password")
	return cmd
}

func usePepper(file string) error {
	if file == "" {
		file = app.LoadConfig().PepperFile
	}
	cryptox.SetPepperPath(file)
	if err := cryptox.LoadPepper(); err != nil {
		return fmt.Errorf("load pepper: %w", err)
	}
	return nil
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("empty password")
	}
	return line, nil
}
