package agent

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"netload-agent/internal/metrics"
)

func (a *Agent) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.scheduler.Run(gctx)
	})
	if a.cfg.ProbeListenAddr != "" {
		g.Go(func() error {
			return a.runProbeListener(gctx)
		})
	}
	if a.cfg.MetricsListenAddr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, a.cfg.MetricsListenAddr, a.exporter.Handler(a.health.Snapshot), a.logger)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *Agent) shutdown(ctx context.Context) {
	if err := a.sink.Close(ctx); err != nil {
		a.logger.Warn("stream sink close failed", "error", err)
	}
	a.health.SetStreamConnected(false)
	a.logger.Debug("agent health at shutdown", "snapshot", a.health.Snapshot())
}
