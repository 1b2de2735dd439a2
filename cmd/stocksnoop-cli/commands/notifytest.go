package commands

import (
	"fmt"
	"os"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"

	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/lib/serviceutil"
	"stocksnoop/services/watcher"
)

func init() {
	rootCmd.AddCommand(notifyTestCmd)
}

var notifyTestCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Send a test notification through the configured channels.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		notifier, ok := buildNotifier(cfg)
		if !ok {
			fmt.Fprintln(os.Stderr, "no notification channels configured")
			fmt.Fprintln(os.Stderr, "Tip: Set DISCORD_WEBHOOK_URL environment variable to receive notifications.")
			os.Exit(1)
		}

		nonce, err := random.String(8)
		if err != nil {
			serviceutil.Fatal("failed to generate nonce", err)
		}

		err = notifier.Notify(cmd.Context(), []watcher.ChangeEvent{{
			Handle:   "notify-test-" + nonce,
			Kind:     watcher.EventStatusChange,
			Previous: shopify.StatusSoldOut,
			Current:  shopify.StatusAvailable,
			Url:      cfg.Storefront.BaseUrl,
		}})
		if err != nil {
			serviceutil.Fatal("failed to deliver test notification", err)
		}

		fmt.Println("Test notification delivered.")
	},
}
