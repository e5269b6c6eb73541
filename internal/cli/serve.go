package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/links/internal/app"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Serve loads the link file, keeps it in sync and exposes the HTTP API.

Configuration is read from LINKS_* and REDIS_* environment variables;
LINKS_LINK_FILE and LINKS_REDIS_ADDR are required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New().Run()
		},
	}
}
