package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/links/internal/linkmeta"
)

func newFetchCommand() *cobra.Command {
	var (
		timeout time.Duration
		maxBody int64
	)
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch the title, description, icon and preview image of a page",
		Long: `Fetch retrieves a page with the same bounds as the server and prints
the extracted metadata.

Example:
  links fetch https://example.org`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := linkmeta.NewFetcher(
				linkmeta.WithTimeout(timeout),
				linkmeta.WithMaxBodySize(maxBody),
			)
			detail, err := f.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), detail)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", linkmeta.DefaultTimeout, "time budget of the whole fetch")
	cmd.Flags().Int64Var(&maxBody, "max-body", linkmeta.DefaultMaxBodySize, "maximum response body size in bytes")
	return cmd
}
