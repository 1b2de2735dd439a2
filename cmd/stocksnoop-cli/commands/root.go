package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stocksnoop/lib/restyutil"
	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/lib/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "stocksnoop-cli",
	Short: "stocksnoop-cli watches a Shopify storefront for product availability changes.",
}

var configPath *string
var verbose *bool
var dumpHttp *string

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "Path to the watcher config file.")
	verbose = rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging.")
	dumpHttp = rootCmd.PersistentFlags().String("dump-http", "", "Directory to dump raw storefront HTTP exchanges into.")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
		if *dumpHttp != "" {
			shopify.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(*dumpHttp))
		}
	}
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
