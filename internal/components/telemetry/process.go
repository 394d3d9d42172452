package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type processGauges struct {
	cpu        metric.Float64Gauge
	memory     metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func newProcessGauges(meter metric.Meter) (processGauges, error) {
	cpuGauge, err := meter.Float64Gauge("cpu_usage")
	if err != nil {
		return processGauges{}, err
	}
	memoryGauge, err := meter.Int64Gauge("allocated_mb")
	if err != nil {
		return processGauges{}, err
	}
	goroutineGauge, err := meter.Int64Gauge("goroutine_count")
	if err != nil {
		return processGauges{}, err
	}
	return processGauges{
		cpu:        cpuGauge,
		memory:     memoryGauge,
		goroutines: goroutineGauge,
	}, nil
}

func (g processGauges) sample(ctx context.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// an interval of 0 compares against the previous call
	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(usage) > 0 {
		g.cpu.Record(ctx, usage[0])
	} else if err != nil {
		slog.Debug("failed to read cpu usage", "err", err)
	}

	g.memory.Record(ctx, int64(memStats.Alloc/1_000_000))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentProcessStats samples cpu, memory and goroutine gauges every
// `interval` until ctx is done.
func InstrumentProcessStats(ctx context.Context, interval time.Duration) error {
	gauges, err := newProcessGauges(otel.Meter("astrocompat/process"))
	if err != nil {
		return err
	}

	gauges.sample(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gauges.sample(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
