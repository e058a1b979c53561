package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errPasswordMismatch = errors.New("passwords do not match")

func NewRegisterCommand(a *App) *cobra.Command {
	var (
		username        string
		noSecondaryAuth bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account on the server. The password is read from the terminal
without echo, or from stdin when it is not a terminal. Accounts require a
secondary factor at login unless --no-secondary-auth is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts := cmd.ErrOrStderr()

			if username == "" {
				var err error
				if username, err = GetSimpleText(a.reader, "Username", prompts); err != nil {
					return err
				}
			}

			password, err := GetPassword(a.reader, "Password", prompts)
			if err != nil {
				return err
			}
			repeat, err := GetPassword(a.reader, "Repeat password", prompts)
			if err != nil {
				return err
			}
			if password != repeat {
				return errPasswordMismatch
			}

			acc, err := a.client.Register(cmd.Context(), username, password, !noSecondaryAuth)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (secondary auth required: %t)\n", acc.Username, acc.RequireSecondaryAuth)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username (prompted when empty)")
	cmd.Flags().BoolVar(&noSecondaryAuth, "no-secondary-auth", false, "do not require a secondary factor at login")

	return cmd
}
