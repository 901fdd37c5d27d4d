package agent

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netload-agent/internal/config"
	"netload-agent/internal/model"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dev")
	stats := "Inter-|   Receive |  Transmit\n face |bytes |bytes\n" +
		"  eth0: 100 1 0 0 0 0 0 0 200 1 0 0 0 0 0 0\n"
	require.NoError(t, os.WriteFile(path, []byte(stats), 0o644))
	return config.Config{
		NodeID:          "node-a",
		StatsPath:       path,
		PollInterval:    20 * time.Millisecond,
		ShutdownTimeout: time.Second,
		StreamMode:      config.StreamModeLog,
		AgentVersion:    config.HardcodedVersion,
		LogLevel:        "error",
	}
}

func TestAgentRunStopsWithContext(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg, BuildLogger(cfg))
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0"}, a.collector.Interfaces())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	require.NoError(t, a.Run(ctx))

	snap := a.health.Snapshot()
	assert.Equal(t, int64(1), snap["interfaces_up"])
	assert.Equal(t, false, snap["stream_connected"])
	assert.Contains(t, snap, "last_sample_at")
}

func TestAgentRejectsBadTLS(t *testing.T) {
	cfg := testConfig(t)
	cfg.TLSEnabled = true
	cfg.TLSCAPath = filepath.Join(t.TempDir(), "missing.pem")

	_, err := New(cfg, BuildLogger(cfg))
	assert.ErrorContains(t, err, "tls config")
}

func TestHealthStatusObserve(t *testing.T) {
	h := NewHealthStatus()
	h.Observe(model.ThroughputReport{
		TimestampUnix: 1700000000,
		Interfaces: []model.InterfaceThroughput{
			{Interface: "eth0", Up: true},
			{Interface: "wlan0"},
		},
	})

	snap := h.Snapshot()
	assert.Equal(t, int64(1), snap["interfaces_up"])
	assert.Equal(t, int64(2), snap["interfaces_total"])
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), snap["last_sample_at"])
}

func TestLivenessListenerBanner(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg, BuildLogger(cfg))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serveLiveness(ctx, ln) }()

	for i := 0; i < 2; i++ {
		conn, err := net.Dial("tcp", ln.Addr().String())
		require.NoError(t, err)
		line, err := bufio.NewReader(conn).ReadString('\n')
		_ = conn.Close()
		require.NoError(t, err)
		assert.Equal(t, "netload-agent:ok V0.3\n", line)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}
