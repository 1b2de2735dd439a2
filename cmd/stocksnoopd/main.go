package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"stocksnoop/lib/checkstore"
	checkstoredb "stocksnoop/lib/checkstore/db"
	"stocksnoop/lib/configutil"
	configsqlite "stocksnoop/lib/configutil/sqlite"
	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/lib/serviceutil"
	"stocksnoop/lib/telemetry"
	"stocksnoop/services/notify"
	"stocksnoop/services/watcher"
)

type StorefrontConfig struct {
	BaseUrl               string `json:"base_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	CheckDelayMs          int    `json:"check_delay_ms"`
}

type DiscordConfig struct {
	Username  string `json:"username"`
	AvatarUrl string `json:"avatar_url"`
}

type NotifyConfig struct {
	Discord DiscordConfig      `json:"discord"`
	Smtp    *notify.SmtpConfig `json:"smtp"`
}

type DaemonConfig struct {
	IntervalMinutes int `json:"interval_minutes"`
	Port            int `json:"port"`
}

type Config struct {
	Storefront StorefrontConfig     `json:"storefront"`
	Handles    []string             `json:"handles"`
	StateFile  string               `json:"state_file"`
	Database   *configsqlite.Struct `json:"database"`
	Notify     NotifyConfig         `json:"notify"`
	Daemon     DaemonConfig         `json:"daemon"`
}

func applyDefaults(config *Config) {
	if config.Storefront.BaseUrl == "" {
		config.Storefront.BaseUrl = "https://sangininstruments.com"
	}
	if len(config.Handles) == 0 {
		config.Handles = watcher.DefaultHandles
	}
	if config.StateFile == "" {
		config.StateFile = "status_cache.json"
	}
	if config.Database == nil {
		config.Database = &configsqlite.Struct{File: "stocksnoop.db"}
	}
	if config.Daemon.IntervalMinutes == 0 {
		config.Daemon.IntervalMinutes = 15
	}
	if config.Daemon.Port == 0 {
		config.Daemon.Port = 8111
	}
}

func buildNotifier(config Config) watcher.Notifier {
	var channels notify.Multi

	webhookUrl := os.Getenv("DISCORD_WEBHOOK_URL")
	if webhookUrl != "" {
		channels = append(channels, notify.NewDiscordWebhook(notify.DiscordOptions{
			WebhookUrl: webhookUrl,
			Username:   config.Notify.Discord.Username,
			AvatarUrl:  config.Notify.Discord.AvatarUrl,
		}))
	}
	if config.Notify.Smtp != nil {
		channels = append(channels, notify.NewEmail(*config.Notify.Smtp))
	}

	if len(channels) == 0 {
		slog.Info("no notification channels configured, changes will only be logged")
		return nil
	}
	return channels
}

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(false)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("failed to read config", err)
	}
	applyDefaults(&config)

	db, err := config.Database.OpenDB(checkstoredb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open history database", err)
	}
	defer db.Close()

	t, err := telemetry.SetupFromEnv(ctx, "stocksnoopd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	client, err := shopify.NewClient(shopify.ClientOptions{
		BaseUrl: config.Storefront.BaseUrl,
		Timeout: time.Duration(config.Storefront.RequestTimeoutSeconds) * time.Second,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize storefront client", err)
	}

	history := checkstore.NewStore(db)
	service := watcher.NewService(client, watcher.Options{
		Handles:    config.Handles,
		StateFile:  config.StateFile,
		CheckDelay: time.Duration(config.Storefront.CheckDelayMs) * time.Millisecond,
		Notifier:   buildNotifier(config),
		History:    &history,
	})

	status := &statusStore{}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", status.handler)
	go serviceutil.StartHttpServer(config.Daemon.Port, mux)

	runCycle := func() {
		start := time.Now()
		result, err := service.RunOnce(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "watch cycle failed", "err", err)
			return
		}
		status.set(result, start)
		slog.InfoContext(
			ctx, "watch cycle finished",
			"run_id", result.RunId,
			"duration", time.Since(start).Round(time.Millisecond).String(),
			"events", len(result.Events),
			"notified", result.Notified,
		)
	}

	interval := time.Duration(config.Daemon.IntervalMinutes) * time.Minute
	slog.Info(
		"watching storefront",
		"base_url", config.Storefront.BaseUrl,
		"interval", interval.String(),
	)

	runCycle()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			runCycle()
		case <-ctx.Done():
			return
		}
	}
}
