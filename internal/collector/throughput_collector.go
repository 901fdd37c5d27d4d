package collector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"

	"netload-agent/internal/model"
	"netload-agent/internal/netdev"
	"netload-agent/internal/rate"
)

// ThroughputCollector owns one Sampler per interface and serializes access to them.
type ThroughputCollector struct {
	mu       sync.Mutex
	logger   *slog.Logger
	clock    clock.Clock
	nodeID   string
	samplers []*netdev.Sampler
	up       map[string]bool
}

// NewThroughputCollector samples names from the statistics file at path. With no
// names every device listed in the file is sampled.
func NewThroughputCollector(path string, names []string, nodeID string, clk clock.Clock, logger *slog.Logger) *ThroughputCollector {
	if clk == nil {
		clk = clock.New()
	}
	if len(names) == 0 {
		names = netdev.ScanDevices(path)
	}

	c := &ThroughputCollector{
		logger: logger,
		clock:  clk,
		nodeID: nodeID,
		up:     make(map[string]bool, len(names)),
	}
	for _, name := range names {
		s := netdev.NewSamplerWithClock(path, name, clk)
		c.samplers = append(c.samplers, s)
		c.up[name] = s.IsDeviceUp()
		logger.Info("sampling interface", "interface", name, "path", s.Path(), "up", s.IsDeviceUp())
	}
	return c
}

func (c *ThroughputCollector) Interfaces() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.samplers))
	for _, s := range c.samplers {
		out = append(out, s.DeviceName())
	}
	return out
}

func (c *ThroughputCollector) Collect(ctx context.Context) (model.ThroughputReport, error) {
	if err := ctx.Err(); err != nil {
		return model.ThroughputReport{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now().UTC().Unix()
	report := model.ThroughputReport{
		NodeID:        c.nodeID,
		TimestampUnix: now,
		Interfaces:    make([]model.InterfaceThroughput, 0, len(c.samplers)),
	}
	for _, s := range c.samplers {
		m := model.InterfaceThroughput{
			NodeID:        c.nodeID,
			Interface:     s.DeviceName(),
			TimestampUnix: now,
			BytesPerSec:   s.BytesPerSecond(),
			RxBytesPerSec: s.RxBytesPerSecond(),
			TxBytesPerSec: s.TxBytesPerSecond(),
			BytesTotal:    s.BytesSinceStartup(),
			RxBytesTotal:  s.RxBytesSinceStartup(),
			TxBytesTotal:  s.TxBytesSinceStartup(),
			Up:            s.IsDeviceUp(),
		}
		m.Rate = rate.FormatBytes(m.BytesPerSec)
		m.BitRate = rate.FormatBits(m.BytesPerSec)

		if was := c.up[m.Interface]; was != m.Up {
			c.logger.Info("interface availability changed", "interface", m.Interface, "up", m.Up)
			c.up[m.Interface] = m.Up
		}
		report.Interfaces = append(report.Interfaces, m)
	}
	return report, nil
}
