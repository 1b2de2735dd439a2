package commands

import (
	"errors"
	"os"
	"time"

	"stocksnoop/lib/checkstore"
	"stocksnoop/lib/checkstore/db"
	"stocksnoop/lib/configutil"
	configsqlite "stocksnoop/lib/configutil/sqlite"
	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/lib/serviceutil"
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

type Config struct {
	Storefront StorefrontConfig     `json:"storefront"`
	Handles    []string             `json:"handles"`
	StateFile  string               `json:"state_file"`
	Database   *configsqlite.Struct `json:"database"`
	Notify     NotifyConfig         `json:"notify"`
}

// readConfig loads the config file named by --config. A missing file is
// fine, the defaults reproduce the stock watcher setup.
func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("failed to read config", err)
	}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Storefront.BaseUrl == "" {
		cfg.Storefront.BaseUrl = "https://sangininstruments.com"
	}
	if len(cfg.Handles) == 0 {
		cfg.Handles = watcher.DefaultHandles
	}
	if cfg.StateFile == "" {
		cfg.StateFile = "status_cache.json"
	}
	if cfg.Database == nil {
		cfg.Database = &configsqlite.Struct{File: "stocksnoop.db"}
	}
}

func buildClient(cfg Config) shopify.Client {
	client, err := shopify.NewClient(shopify.ClientOptions{
		BaseUrl: cfg.Storefront.BaseUrl,
		Timeout: time.Duration(cfg.Storefront.RequestTimeoutSeconds) * time.Second,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize storefront client", err)
	}
	return client
}

// buildNotifier assembles the configured channels. The Discord webhook URL
// comes from the DISCORD_WEBHOOK_URL environment variable; when it is unset
// and no smtp block is configured there is no notifier at all.
func buildNotifier(cfg Config) (watcher.Notifier, bool) {
	var channels notify.Multi

	webhookUrl := os.Getenv("DISCORD_WEBHOOK_URL")
	if webhookUrl != "" {
		channels = append(channels, notify.NewDiscordWebhook(notify.DiscordOptions{
			WebhookUrl: webhookUrl,
			Username:   cfg.Notify.Discord.Username,
			AvatarUrl:  cfg.Notify.Discord.AvatarUrl,
		}))
	}
	if cfg.Notify.Smtp != nil {
		channels = append(channels, notify.NewEmail(*cfg.Notify.Smtp))
	}

	if len(channels) == 0 {
		return nil, false
	}
	return channels, true
}

func openHistory(cfg Config) (*checkstore.Store, func()) {
	sqlite, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open history database", err)
	}
	store := checkstore.NewStore(sqlite)
	return &store, func() { sqlite.Close() }
}
