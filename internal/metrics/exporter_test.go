package metrics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netload-agent/internal/model"
)

func testReport() model.ThroughputReport {
	return model.ThroughputReport{
		NodeID:        "node-a",
		TimestampUnix: 1700000000,
		Interfaces: []model.InterfaceThroughput{
			{Interface: "eth0", Up: true, RxBytesPerSec: 100, TxBytesPerSec: 50, BytesPerSec: 150, RxBytesTotal: 1000, TxBytesTotal: 500, BytesTotal: 1500},
			{Interface: "wlan0", Up: false},
		},
	}
}

func TestExporterObserve(t *testing.T) {
	e := NewExporter()
	e.Observe(testReport())

	assert.Equal(t, 1.0, testutil.ToFloat64(e.up.WithLabelValues("eth0")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.up.WithLabelValues("wlan0")))
	assert.Equal(t, 100.0, testutil.ToFloat64(e.bytesPerSec.WithLabelValues("eth0", "rx")))
	assert.Equal(t, 150.0, testutil.ToFloat64(e.bytesPerSec.WithLabelValues("eth0", "all")))
	assert.Equal(t, 500.0, testutil.ToFloat64(e.bytesTotal.WithLabelValues("eth0", "tx")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(e.lastReport))
}

func TestExporterHandler(t *testing.T) {
	e := NewExporter()
	e.Observe(testReport())
	srv := httptest.NewServer(e.Handler(func() map[string]any {
		return map[string]any{"stream_connected": true}
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `netload_interface_bytes_per_second{direction="rx",interface="eth0"} 100`))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, true, health["stream_connected"])
}
