package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stocksnoop/lib/restyutil"
	"stocksnoop/lib/scrapers/shopify"
	"stocksnoop/lib/textutil"
	"stocksnoop/services/watcher"
)

// Discord rejects messages with more than 10 embeds.
const discordEmbedLimit = 10

const (
	colorGreen  = 0x00FF00
	colorRed    = 0xFF0000
	colorYellow = 0xFFFF00
)

type DiscordOptions struct {
	WebhookUrl string
	// defaults to "Stock Snoop"
	Username  string
	AvatarUrl string
	// defaults to 10 seconds
	Timeout time.Duration
}

// DiscordWebhook posts one grouped message per run to a Discord webhook.
type DiscordWebhook struct {
	http   *resty.Client
	config DiscordOptions
}

func NewDiscordWebhook(options DiscordOptions) DiscordWebhook {
	if options.Username == "" {
		options.Username = "Stock Snoop"
	}
	if options.Timeout == 0 {
		options.Timeout = time.Second * 10
	}

	client := resty.New()
	client.SetTimeout(options.Timeout)
	restyutil.InstrumentClient(client, "services/notify", nil)

	return DiscordWebhook{
		http:   client,
		config: options,
	}
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Url         string `json:"url"`
	Color       int    `json:"color"`
}

type discordPayload struct {
	Username  string         `json:"username"`
	AvatarUrl string         `json:"avatar_url,omitempty"`
	Content   string         `json:"content"`
	Embeds    []discordEmbed `json:"embeds"`
}

func buildEmbed(e watcher.ChangeEvent) discordEmbed {
	name := textutil.DisplayName(e.Handle)

	embed := discordEmbed{Url: e.Url}
	switch e.Current {
	case shopify.StatusAvailable:
		embed.Color = colorGreen
		embed.Title = fmt.Sprintf("🟢 %s is NOW AVAILABLE!", name)
	case shopify.StatusSoldOut:
		embed.Color = colorRed
		embed.Title = fmt.Sprintf("🔴 %s is now Sold Out", name)
	default:
		embed.Color = colorYellow
		embed.Title = fmt.Sprintf("🟡 %s status changed", name)
	}

	if e.Kind == watcher.EventNewProduct {
		embed.Title = fmt.Sprintf("🆕 New product: %s", name)
		embed.Description = fmt.Sprintf("**Current:** %s", e.Current.Display())
	} else {
		embed.Description = fmt.Sprintf(
			"**Previous:** %s\n**Current:** %s",
			e.Previous.Display(),
			e.Current.Display(),
		)
	}
	return embed
}

func (d DiscordWebhook) Notify(ctx context.Context, events []watcher.ChangeEvent) error {
	ctx, span := tracer.Start(ctx, "discord:Notify")
	defer span.End()
	span.SetAttributes(attribute.Int("events", len(events)))

	if len(events) == 0 {
		return nil
	}

	embeds := make([]discordEmbed, 0, len(events))
	for _, e := range orderEvents(events) {
		embeds = append(embeds, buildEmbed(e))
	}
	if len(embeds) > discordEmbedLimit {
		embeds = embeds[:discordEmbedLimit]
	}

	res, err := d.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(discordPayload{
			Username:  d.config.Username,
			AvatarUrl: d.config.AvatarUrl,
			Content:   "**Stock Availability Update**",
			Embeds:    embeds,
		}).
		Post(d.config.WebhookUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post to webhook")
		return err
	}
	if res.IsError() {
		err = fmt.Errorf("webhook returned HTTP %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook rejected the message")
		return err
	}
	return nil
}
