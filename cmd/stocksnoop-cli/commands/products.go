package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(productsCmd)
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Discover the storefront's products and show which strategy found them.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := buildClient(cfg)

		products, strategy := client.DiscoverProducts(cmd.Context(), cfg.Handles)

		t := newTable()
		t.AppendHeader(table.Row{"HANDLE", "TITLE", "SOURCE"})
		for _, p := range products {
			t.AppendRow(table.Row{p.Handle, p.Title, strategy})
		}
		t.Render()
	},
}
