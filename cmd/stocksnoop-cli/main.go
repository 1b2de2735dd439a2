package main

import (
	"context"

	"stocksnoop/cmd/stocksnoop-cli/commands"
	"stocksnoop/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "stocksnoop-cli")
	commands.ExecuteContext(context.Background())
}
