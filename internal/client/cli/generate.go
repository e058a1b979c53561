package cli

import (
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/spf13/cobra"
)

func NewGenerateCommand(a *App) *cobra.Command {
	var (
		length    int
		noUpper   bool
		noLower   bool
		noNumbers bool
		noSymbols bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random password on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.vault()
			if err != nil {
				return err
			}

			var opts api.GenerateOptions
			flags := cmd.Flags()
			if flags.Changed("length") {
				opts.Length = &length
			}
			opts.IncludeUppercase = excluded(flags.Changed("no-upper"), noUpper)
			opts.IncludeLowercase = excluded(flags.Changed("no-lower"), noLower)
			opts.IncludeNumbers = excluded(flags.Changed("no-numbers"), noNumbers)
			opts.IncludeSymbols = excluded(flags.Changed("no-symbols"), noSymbols)

			password, err := c.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), password)
			return nil
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", 16, "password length, 8 to 64")
	cmd.Flags().BoolVar(&noUpper, "no-upper", false, "exclude uppercase letters")
	cmd.Flags().BoolVar(&noLower, "no-lower", false, "exclude lowercase letters")
	cmd.Flags().BoolVar(&noNumbers, "no-numbers", false, "exclude digits")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "exclude symbols")

	return cmd
}

// excluded turns a --no-X flag into an include option, leaving it unset
// when the flag was not given.
func excluded(changed, value bool) *bool {
	if !changed {
		return nil
	}
	include := !value
	return &include
}
