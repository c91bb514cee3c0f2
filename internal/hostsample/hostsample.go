// Package hostsample periodically samples host CPU and process RSS using
// gopsutil, publishing both as OpenTelemetry observable gauges, per spec.md
// §11.2. Grounded on the teacher's cmd/agent/main.go collectMetrics, which
// samples cpu.Percent and process.MemoryInfo on the same cadence.
package hostsample

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
	"go.opentelemetry.io/otel/metric"
)

// Snapshot is the most recently sampled host/process state.
type Snapshot struct {
	CPUPercent float64
	MemRSS     uint64
	SampledAt  time.Time
}

// Sampler periodically samples host CPU and this process's RSS and keeps
// the latest Snapshot available for synchronous reads, while also
// publishing both as observable gauges against a Meter.
type Sampler struct {
	interval time.Duration
	pid      int32

	mu       sync.RWMutex
	snapshot Snapshot
}

// New builds a Sampler for the current process, sampling every interval.
func New(interval time.Duration) *Sampler {
	return &Sampler{interval: interval, pid: int32(os.Getpid())}
}

// Snapshot returns the most recently collected sample. The zero value is
// returned if Run has not yet completed a sampling pass.
func (s *Sampler) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run samples on a fixed interval until ctx is done. It collects one sample
// immediately before entering the ticking loop so Snapshot is populated
// without waiting a full interval.
func (s *Sampler) Run(ctx context.Context) {
	s.sampleOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleOnce()
		}
	}
}

func (s *Sampler) sampleOnce() {
	snap := Snapshot{SampledAt: time.Now()}

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		snap.CPUPercent = pct[0]
	}

	if proc, err := process.NewProcess(s.pid); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			snap.MemRSS = mem.RSS
		}
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// RegisterGauges registers "projector.host.cpu_percent" and
// "projector.host.mem_rss_bytes" as observable gauges against meter, each
// callback reading the Sampler's latest Snapshot.
func (s *Sampler) RegisterGauges(meter metric.Meter) (metric.Registration, error) {
	cpuGauge, err := meter.Float64ObservableGauge(
		"projector.host.cpu_percent",
		metric.WithDescription("Host-wide CPU utilization percent, sampled periodically"),
	)
	if err != nil {
		return nil, err
	}

	rssGauge, err := meter.Int64ObservableGauge(
		"projector.host.mem_rss_bytes",
		metric.WithDescription("Resident set size of this process, sampled periodically"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			snap := s.Snapshot()
			o.ObserveFloat64(cpuGauge, snap.CPUPercent)
			o.ObserveInt64(rssGauge, int64(snap.MemRSS))
			return nil
		},
		cpuGauge, rssGauge,
	)
}
