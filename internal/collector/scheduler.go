package collector

import (
	"context"
	"log/slog"
	"time"

	"netload-agent/internal/model"
	"netload-agent/internal/stream"
)

// Observer receives every report the scheduler collects.
type Observer interface {
	Observe(report model.ThroughputReport)
}

type Scheduler struct {
	logger       *slog.Logger
	collector    *ThroughputCollector
	sink         stream.Sink
	observers    []Observer
	interval     time.Duration
	errorBackoff time.Duration
}

func NewScheduler(
	logger *slog.Logger,
	collector *ThroughputCollector,
	sink stream.Sink,
	interval, errorBackoff time.Duration,
	observers ...Observer,
) *Scheduler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if errorBackoff <= 0 {
		errorBackoff = time.Second
	}
	return &Scheduler{
		logger:       logger,
		collector:    collector,
		sink:         sink,
		observers:    observers,
		interval:     interval,
		errorBackoff: errorBackoff,
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.collectAndSend(ctx); err != nil {
		s.logger.Warn("initial throughput collect failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.collectAndSend(ctx); err != nil {
				s.logger.Error("throughput collect/send failed", "error", err)
				s.sleepWithContext(ctx, s.errorBackoff)
			}
		}
	}
}

func (s *Scheduler) collectAndSend(ctx context.Context) error {
	report, err := s.collector.Collect(ctx)
	if err != nil {
		return err
	}
	for _, o := range s.observers {
		o.Observe(report)
	}
	if len(report.Interfaces) == 0 {
		return nil
	}
	return s.sink.SendThroughput(ctx, report)
}

func (s *Scheduler) sleepWithContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
