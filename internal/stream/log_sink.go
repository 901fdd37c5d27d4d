package stream

import (
	"context"
	"log/slog"

	"netload-agent/internal/model"
)

// LogSink writes every interface line of a report to the logger.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger, level: slog.LevelInfo}
}

func (s *LogSink) SendThroughput(ctx context.Context, report model.ThroughputReport) error {
	for _, m := range report.Interfaces {
		s.logger.Log(ctx, s.level, "interface throughput",
			"interface", m.Interface,
			"up", m.Up,
			"rate", m.Rate,
			"bit_rate", m.BitRate,
			"rx_bytes_per_sec", m.RxBytesPerSec,
			"tx_bytes_per_sec", m.TxBytesPerSec,
			"bytes_total", m.BytesTotal,
		)
	}
	return nil
}

func (s *LogSink) Close(context.Context) error {
	return nil
}
