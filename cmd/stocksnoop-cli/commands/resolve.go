package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stocksnoop/services/watcher"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>...",
	Short: "Resolve free-form product names to storefront handles.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := buildClient(cfg)

		products, _ := client.DiscoverProducts(cmd.Context(), cfg.Handles)
		handles := make([]string, len(products))
		for i, p := range products {
			handles[i] = p.Handle
		}

		matches := watcher.MatchHandles(args, handles)

		t := newTable()
		t.AppendHeader(table.Row{"QUERY", "HANDLE", "CORRELATION"})
		for _, match := range matches {
			t.AppendRow(table.Row{
				match.Query,
				match.Handle,
				fmt.Sprintf("%.3f", match.Correlation),
			})
		}
		t.Render()
	},
}
