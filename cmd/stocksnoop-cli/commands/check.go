package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stocksnoop/lib/serviceutil"
	"stocksnoop/services/watcher"
)

var checkState *string
var checkNoHistory *bool

func init() {
	checkState = checkCmd.Flags().String("state", "", "Override the state file path.")
	checkNoHistory = checkCmd.Flags().Bool("no-history", false, "Skip recording this run in the history database.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one watch cycle: discover products, check availability, report changes.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if *checkState != "" {
			cfg.StateFile = *checkState
		}

		options := watcher.Options{
			Handles:    cfg.Handles,
			StateFile:  cfg.StateFile,
			CheckDelay: time.Duration(cfg.Storefront.CheckDelayMs) * time.Millisecond,
		}
		notifier, hasNotifier := buildNotifier(cfg)
		if hasNotifier {
			options.Notifier = notifier
		}
		if !*checkNoHistory {
			store, closeHistory := openHistory(cfg)
			defer closeHistory()
			options.History = store
		}

		service := watcher.NewService(buildClient(cfg), options)

		fmt.Println("Checking product availability...")
		fmt.Println()

		result, err := service.RunOnce(cmd.Context())
		if err != nil {
			serviceutil.Fatal("watch run failed", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"HANDLE", "STATUS", "DETAIL", "URL"})
		for _, check := range result.Results {
			t.AppendRow(table.Row{check.Handle, check.Status.Display(), check.Detail, check.Url})
		}
		t.Render()

		switch {
		case len(result.Events) > 0:
			fmt.Println()
			fmt.Println(strings.Repeat("=", 90))
			fmt.Println("CHANGES DETECTED:")
			fmt.Println(strings.Repeat("=", 90))
			for _, event := range result.Events {
				fmt.Printf("  %s\n", event.Line())
			}
			fmt.Println()
			if !hasNotifier {
				fmt.Println("Tip: Set DISCORD_WEBHOOK_URL environment variable to receive notifications.")
			} else if result.Notified {
				fmt.Println("Notification sent successfully!")
			} else {
				fmt.Println("Failed to send notification.")
			}
		case result.FirstRun:
			fmt.Println()
			fmt.Println("First run - status saved for future comparison.")
		default:
			fmt.Println()
			fmt.Println("No changes detected since last check.")
		}
	},
}
