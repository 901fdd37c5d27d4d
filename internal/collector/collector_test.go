package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netload-agent/internal/model"
)

func writeStats(t *testing.T, path string, rows map[string][2]uint64, order ...string) {
	t.Helper()
	text := "Inter-|   Receive |  Transmit\n face |bytes |bytes\n"
	for _, name := range order {
		v := rows[name]
		text += fmt.Sprintf("%6s: %d 1 0 0 0 0 0 0 %d 1 0 0 0 0 0 0\n", name, v[0], v[1])
	}
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSink struct {
	mu      sync.Mutex
	reports []model.ThroughputReport
	err     error
}

func (s *recordingSink) SendThroughput(_ context.Context, report model.ThroughputReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return s.err
}

func (s *recordingSink) Close(context.Context) error { return nil }

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

type recordingObserver struct {
	mu   sync.Mutex
	seen int
}

func (o *recordingObserver) Observe(model.ThroughputReport) {
	o.mu.Lock()
	o.seen++
	o.mu.Unlock()
}

func TestCollectorDiscoversAllDevices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev")
	writeStats(t, path, map[string][2]uint64{"lo": {1, 1}, "eth0": {2, 2}}, "lo", "eth0")

	c := NewThroughputCollector(path, nil, "node-a", clock.NewMock(), discardLogger())

	assert.Equal(t, []string{"lo", "eth0"}, c.Interfaces())
}

func TestCollectorCollect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev")
	writeStats(t, path, map[string][2]uint64{"eth0": {1000, 1000}}, "eth0")
	clk := clock.NewMock()
	c := NewThroughputCollector(path, []string{"eth0", "wlan0"}, "node-a", clk, discardLogger())

	writeStats(t, path, map[string][2]uint64{"eth0": {1501000, 1000}}, "eth0")
	clk.Add(time.Second)

	report, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Interfaces, 2)
	assert.Equal(t, "node-a", report.NodeID)

	eth := report.Interfaces[0]
	assert.Equal(t, "eth0", eth.Interface)
	assert.True(t, eth.Up)
	assert.EqualValues(t, 1500, eth.BytesPerSec)
	assert.EqualValues(t, 1500, eth.RxBytesPerSec)
	assert.Zero(t, eth.TxBytesPerSec)
	assert.EqualValues(t, 1502000, eth.BytesTotal)
	assert.EqualValues(t, 1501000, eth.RxBytesTotal)
	assert.EqualValues(t, 1000, eth.TxBytesTotal)
	assert.Equal(t, "1.5kByte/s", eth.Rate)
	assert.Equal(t, "12.0kBit/s", eth.BitRate)

	wlan := report.Interfaces[1]
	assert.False(t, wlan.Up)
	assert.Equal(t, "undef", wlan.Rate)
}

func TestCollectorReportsDeviceDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev")
	writeStats(t, path, map[string][2]uint64{"eth0": {10, 10}}, "eth0")
	c := NewThroughputCollector(path, []string{"eth0"}, "node-a", clock.NewMock(), discardLogger())

	writeStats(t, path, map[string][2]uint64{"lo": {1, 1}}, "lo")
	report, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Interfaces, 1)
	assert.False(t, report.Interfaces[0].Up)
	assert.EqualValues(t, 20, report.Interfaces[0].BytesTotal)
}

func TestCollectorCanceledContext(t *testing.T) {
	c := NewThroughputCollector(filepath.Join(t.TempDir(), "absent"), nil, "node-a", clock.NewMock(), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSchedulerSendsAndObserves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev")
	writeStats(t, path, map[string][2]uint64{"eth0": {10, 10}}, "eth0")
	c := NewThroughputCollector(path, nil, "node-a", nil, discardLogger())
	sink := &recordingSink{}
	obs := &recordingObserver{}
	s := NewScheduler(discardLogger(), c, sink, 10*time.Millisecond, 10*time.Millisecond, obs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return sink.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.GreaterOrEqual(t, obs.seen, 2)
}

func TestSchedulerSkipsEmptyReports(t *testing.T) {
	c := NewThroughputCollector(filepath.Join(t.TempDir(), "absent"), nil, "node-a", nil, discardLogger())
	sink := &recordingSink{}
	s := NewScheduler(discardLogger(), c, sink, time.Hour, time.Second)

	require.NoError(t, s.collectAndSend(context.Background()))
	assert.Zero(t, sink.count())
}
