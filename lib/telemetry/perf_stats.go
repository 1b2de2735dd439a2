package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("go.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

const perfSampleInterval = time.Second * 30

// InstrumentPerfStats samples process health in the background until ctx is
// cancelled. cpu usage is measured as a delta since the previous sample, so
// the loop never blocks inside a tick.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		// prime the delta gopsutil reports on subsequent calls
		cpu.Percent(0, false)

		var memStats runtime.MemStats
		ticker := time.NewTicker(perfSampleInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				cpuUsage, err := cpu.Percent(0, false)
				if err != nil {
					slog.WarnContext(ctx, "failed to read cpu usage", "err", err)
				} else if len(cpuUsage) > 0 {
					cpuGauge.Record(ctx, cpuUsage[0])
				}

				memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
