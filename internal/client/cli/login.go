package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/spf13/cobra"
)

var errSecondaryNotConfirmed = errors.New("secondary factor was not confirmed")

// confirmSecondaryFactor stands in for the device-level authenticator. The
// server only sees the resulting boolean.
var confirmSecondaryFactor = func(reader *bufio.Reader, w io.Writer) (bool, error) {
	return Confirm(reader, "This account requires a secondary factor. Confirm it on your device", w)
}

func NewLoginCommand(a *App) *cobra.Command {
	var (
		username  string
		confirmed bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Long: `Log in and print an access token on stdout, for example:

  export PASSVAULT_TOKEN=$(passvault login -u alice)

When the account requires a secondary factor the login is retried after the
factor has been confirmed. --confirmed skips the prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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

			res, err := a.client.Login(ctx, username, password, confirmed)
			if errors.Is(err, common.ErrorPreconditionRequired) && !confirmed {
				ok, cerr := confirmSecondaryFactor(a.reader, prompts)
				if cerr != nil {
					return cerr
				}
				if !ok {
					return errSecondaryNotConfirmed
				}
				res, err = a.client.Login(ctx, username, password, true)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(prompts, "Logged in as", username)
			fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username (prompted when empty)")
	cmd.Flags().BoolVar(&confirmed, "confirmed", false, "assert the secondary factor is already confirmed")

	return cmd
}
