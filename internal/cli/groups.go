package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/links/internal/finder"
	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/logger"
	"github.com/MrSnakeDoc/links/internal/query"
	"github.com/MrSnakeDoc/links/internal/scheduler"
)

// loadFile reads a link file into a fresh in-memory finder, without Redis.
func loadFile(ctx context.Context, path, logLevel string) (*finder.Finder, error) {
	idx := index.NewMemoryIndex()
	reloader := scheduler.NewLinkReloader(path, nil, idx, logger.New(logLevel, true), time.Hour, nil)
	if err := reloader.Reload(ctx); err != nil {
		return nil, err
	}
	return finder.New(idx, 0), nil
}

func newGroupsCommand() *cobra.Command {
	var (
		file     string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Print the grouped view of a link file",
		Long: `Groups loads a link file and prints every group with its links, in
display order, followed by the ungrouped links.

Example:
  links groups --file links.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFile(cmd.Context(), file, logLevel)
			if err != nil {
				return err
			}
			groups, err := f.GroupBy(cmd.Context())
			if err != nil {
				return fmt.Errorf("group links: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), groups)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "links.yaml", "link file to read")
	cmd.Flags().StringVar(&logLevel, "log-level", "error", "log level while loading")
	return cmd
}

func newListCommand() *cobra.Command {
	var (
		file     string
		logLevel string
		keyword  string
		group    string
		sort     []string
		labels   []string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the links of a link file",
		Long: `List loads a link file and prints the links matching the filters.

Example:
  links list --file links.yaml --keyword wiki --sort priority,desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFile(cmd.Context(), file, logLevel)
			if err != nil {
				return err
			}
			res, err := f.List(cmd.Context(), query.ListRequest{
				Keyword:       keyword,
				GroupName:     group,
				LabelSelector: labels,
				Sort:          query.ParseSort(sort),
			})
			if err != nil {
				return fmt.Errorf("list links: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), res.Items)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "links.yaml", "link file to read")
	cmd.Flags().StringVar(&logLevel, "log-level", "error", "log level while loading")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "case-insensitive match on display name, description and url")
	cmd.Flags().StringVarP(&group, "group", "g", "", "only links of this group")
	cmd.Flags().StringArrayVar(&sort, "sort", nil, "sort directive field,direction (repeatable)")
	cmd.Flags().StringSliceVarP(&labels, "selector", "l", nil, "label selector terms")
	return cmd
}
