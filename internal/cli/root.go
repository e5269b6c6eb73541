// Package cli provides the links command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the links command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "links",
		Short: "Links is a grouped link directory",
		Long: `Links serves a directory of external links organized in groups.

Links and groups are read from a YAML link file, persisted in Redis and
exposed over an HTTP API together with on-demand page metadata.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newGroupsCommand())
	root.AddCommand(newListCommand())
	root.AddCommand(newFetchCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
