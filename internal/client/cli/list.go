package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/spf13/cobra"
)

const maskedSecret = "********"

func NewListCommand(a *App) *cobra.Command {
	var (
		reveal bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored credentials, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.vault()
			if err != nil {
				return err
			}

			items, err := c.List(cmd.Context())
			if err != nil {
				return err
			}

			if !reveal {
				for i := range items {
					items[i].Secret = maskedSecret
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(items) == 0 {
				fmt.Fprintln(out, "No credentials stored.")
				return nil
			}
			return writeTable(out, items)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print passwords instead of a mask")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func writeTable(w io.Writer, items []api.Secret) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tUSERNAME\tPASSWORD\tCREATED")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Description, it.Username, it.Secret, it.CreatedAtUTC.Format(time.RFC3339))
	}
	return tw.Flush()
}
