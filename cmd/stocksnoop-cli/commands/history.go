package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stocksnoop/lib/serviceutil"
)

var historyLimit *int

func init() {
	historyLimit = historyCmd.Flags().Int("limit", 20, "Maximum number of checks to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [handle]",
	Short: "Show past checks for a handle, or list every checked handle.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, closeHistory := openHistory(cfg)
		defer closeHistory()

		if len(args) == 0 {
			handles, err := store.Handles(cmd.Context())
			if err != nil {
				serviceutil.Fatal("failed to list checked handles", err)
			}
			for _, handle := range handles {
				fmt.Println(handle)
			}
			return
		}

		checks, err := store.History(cmd.Context(), args[0], *historyLimit)
		if err != nil {
			serviceutil.Fatal("failed to read history", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"CHECKED AT", "STATUS", "DETAIL", "RUN"})
		for _, check := range checks {
			t.AppendRow(table.Row{
				check.CheckedAt.Format(time.RFC3339),
				check.Status.Display(),
				check.Detail,
				check.RunId,
			})
		}
		t.Render()
	},
}
