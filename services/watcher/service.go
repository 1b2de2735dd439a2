// Package watcher runs the watch cycle: discover products, check their
// availability, diff against the previous run and hand changes off for
// notification.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stocksnoop/lib/checkstore"
	"stocksnoop/lib/scrapers/shopify"
)

var tracer = otel.Tracer("services/watcher")

// Notifier delivers a digest of change events to an outside channel.
type Notifier interface {
	Notify(ctx context.Context, events []ChangeEvent) error
}

// DefaultCheckDelay is the pause between consecutive product page fetches
// so the storefront isn't hammered.
const DefaultCheckDelay = time.Second

// DefaultHandles is checked when no handle list is configured and every
// discovery strategy fails.
var DefaultHandles = []string{
	"atlas-ii",
	"overlord",
	"professional",
	"neptune",
	"merlin",
	"dark-merlin",
	"kingmaker",
	"kinetic-ii",
	"kinetic-ii-ti",
	"hydra",
	"overlord-special-edition",
	"kinetic-gypsy",
	"marauder",
}

type Options struct {
	// checked when every discovery strategy fails
	Handles   []string
	StateFile string
	// defaults to DefaultCheckDelay
	CheckDelay time.Duration
	// optional
	Notifier Notifier
	// optional
	History *checkstore.Store
}

type Service struct {
	client shopify.Client
	config Options
}

func NewService(client shopify.Client, options Options) Service {
	if options.CheckDelay == 0 {
		options.CheckDelay = DefaultCheckDelay
	}
	return Service{
		client: client,
		config: options,
	}
}

type RunResult struct {
	RunId    string
	Strategy string
	Results  []shopify.CheckResult
	Events   []ChangeEvent
	// true when there was no previous state to compare against
	FirstRun bool
	Notified bool
}

// RunOnce performs one full watch cycle: discover, check, diff, notify,
// persist. Notification and history failures degrade to logs; the returned
// error only ever comes from writing the state file, or from the context
// being canceled mid-run.
func (s Service) RunOnce(ctx context.Context) (RunResult, error) {
	ctx, span := tracer.Start(ctx, "RunOnce")
	defer span.End()

	runId, err := random.String(8)
	if err != nil {
		runId = "unknown"
	}
	span.SetAttributes(attribute.String("run_id", runId))

	result := RunResult{RunId: runId}

	previous := LoadState(ctx, s.config.StateFile)
	result.FirstRun = len(previous) == 0

	products, strategy := s.client.DiscoverProducts(ctx, s.config.Handles)
	result.Strategy = strategy
	slog.InfoContext(
		ctx, "discovered products",
		"run_id", runId,
		"strategy", strategy,
		"count", len(products),
	)

	now := time.Now()
	for i, product := range products {
		if i > 0 {
			select {
			case <-time.After(s.config.CheckDelay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}

		check := s.client.CheckAvailability(ctx, product.Handle)
		slog.InfoContext(
			ctx, "checked product",
			"run_id", runId,
			"handle", check.Handle,
			"status", check.Status,
		)
		result.Results = append(result.Results, check)
	}

	if result.FirstRun {
		slog.InfoContext(ctx, "no previous state, saving a baseline", "run_id", runId)
	} else {
		result.Events = DetectChanges(previous, result.Results)
	}
	span.SetAttributes(attribute.Int("events", len(result.Events)))

	if len(result.Events) > 0 && s.config.Notifier != nil {
		err := s.config.Notifier.Notify(ctx, result.Events)
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(
				ctx, "failed to deliver change notification",
				"run_id", runId,
				"err", err,
			)
		} else {
			result.Notified = true
		}
	}

	if s.config.History != nil {
		err := s.config.History.Push(ctx, checkstore.PushRequest{
			Time:   now,
			RunId:  runId,
			Checks: result.Results,
		})
		if err != nil {
			slog.WarnContext(
				ctx, "failed to record run history",
				"run_id", runId,
				"err", err,
			)
		}
	}

	state := make(map[string]ProductRecord, len(result.Results))
	for _, check := range result.Results {
		state[check.Handle] = ProductRecord{
			Handle:      check.Handle,
			Status:      check.Status,
			Url:         check.Url,
			LastChecked: now,
		}
	}
	err = SaveState(s.config.StateFile, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save state file")
		return result, err
	}

	return result, nil
}
