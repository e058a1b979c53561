package cli

import (
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/spf13/cobra"
)

func NewAddCommand(a *App) *cobra.Command {
	var (
		description string
		username    string
		generate    bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a credential",
		Long: `Store a credential. The password is prompted for; leave it empty, or pass
--generate, to have the server generate one with the default policy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.vault()
			if err != nil {
				return err
			}
			prompts := cmd.ErrOrStderr()

			if description == "" {
				if description, err = GetSimpleText(a.reader, "Description", prompts); err != nil {
					return err
				}
			}
			if username == "" {
				if username, err = GetSimpleText(a.reader, "Username", prompts); err != nil {
					return err
				}
			}

			var password string
			if !generate {
				if password, err = GetPassword(a.reader, "Password (empty to generate)", prompts); err != nil {
					return err
				}
			}

			rec, err := c.Create(cmd.Context(), api.NewSecret{
				Description: description,
				Username:    username,
				Password:    password,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stored %s\n", rec.ID)
			if password == "" {
				fmt.Fprintf(out, "Generated password: %s\n", rec.Secret)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what the credential is for")
	cmd.Flags().StringVarP(&username, "username", "u", "", "login name stored with the credential")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate the password on the server")

	return cmd
}
