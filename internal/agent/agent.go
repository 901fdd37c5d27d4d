package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"netload-agent/internal/collector"
	"netload-agent/internal/config"
	"netload-agent/internal/metrics"
	"netload-agent/internal/model"
	"netload-agent/internal/stream"
)

type Agent struct {
	cfg       config.Config
	logger    *slog.Logger
	collector *collector.ThroughputCollector
	scheduler *collector.Scheduler
	sink      stream.Sink
	exporter  *metrics.Exporter
	health    *HealthStatus
}

func New(cfg config.Config, logger *slog.Logger) (*Agent, error) {
	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		return nil, fmt.Errorf("tls config: %w", err)
	}

	sink, err := stream.NewSinkFromConfig(cfg, tlsCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("stream sink: %w", err)
	}

	throughput := collector.NewThroughputCollector(cfg.StatsPath, cfg.Interfaces, cfg.NodeID, clock.New(), logger)
	if len(throughput.Interfaces()) == 0 {
		logger.Warn("no network interfaces found", "path", cfg.StatsPath)
	}

	health := NewHealthStatus()
	wrappedSink := &healthSink{sink: sink, health: health}
	exporter := metrics.NewExporter()
	scheduler := collector.NewScheduler(
		logger,
		throughput,
		wrappedSink,
		cfg.PollInterval,
		cfg.CollectorErrorBackoff,
		exporter,
		health,
	)

	return &Agent{
		cfg:       cfg,
		logger:    logger,
		collector: throughput,
		scheduler: scheduler,
		sink:      wrappedSink,
		exporter:  exporter,
		health:    health,
	}, nil
}

func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("starting netload-agent",
		"node_id", a.cfg.NodeID,
		"stats_path", a.cfg.StatsPath,
		"interfaces", a.collector.Interfaces(),
		"stream_mode", a.cfg.StreamMode,
		"version", a.cfg.AgentVersion,
	)
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- a.run(runCtx)
	}()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case runErr = <-runErrCh:
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received, starting graceful shutdown", "signal", sig.String(), "timeout", a.cfg.ShutdownTimeout)
		cancelRun()

		graceTimer := time.NewTimer(a.cfg.ShutdownTimeout)
		defer graceTimer.Stop()

		select {
		case runErr = <-runErrCh:
		case sig2 := <-sigCh:
			a.logger.Warn("second signal received, forcing immediate shutdown", "signal", sig2.String())
			runErr = context.Canceled
		case <-graceTimer.C:
			a.logger.Warn("graceful shutdown timeout reached, forcing shutdown", "timeout", a.cfg.ShutdownTimeout)
			runErr = context.DeadlineExceeded
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancelShutdown()
	a.shutdown(shutdownCtx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}
	a.logger.Info("netload-agent stopped")
	return nil
}

func BuildLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	hOpts := &slog.HandlerOptions{Level: level}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, hOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, hOpts))
}

type healthSink struct {
	sink   stream.Sink
	health *HealthStatus
}

func (s *healthSink) SendThroughput(ctx context.Context, report model.ThroughputReport) error {
	err := s.sink.SendThroughput(ctx, report)
	if err != nil {
		s.health.SetStreamConnected(false)
		return err
	}
	s.health.SetStreamConnected(true)
	return nil
}

func (s *healthSink) Close(ctx context.Context) error {
	return s.sink.Close(ctx)
}
