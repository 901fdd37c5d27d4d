// Package metrics exposes the latest throughput report to Prometheus.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"netload-agent/internal/model"
)

const namespace = "netload"

type Exporter struct {
	registry    *prometheus.Registry
	up          *prometheus.GaugeVec
	bytesPerSec *prometheus.GaugeVec
	bytesTotal  *prometheus.GaugeVec
	lastReport  prometheus.Gauge
}

func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interface_up",
			Help:      "1 when the interface row was present in the last statistics read.",
		}, []string{"interface"}),
		bytesPerSec: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interface_bytes_per_second",
			Help:      "Bytes per second since the previous sample.",
		}, []string{"interface", "direction"}),
		bytesTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interface_bytes_total",
			Help:      "Cumulative bytes reported by the kernel.",
		}, []string{"interface", "direction"}),
		lastReport: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_report_timestamp_seconds",
			Help:      "Unix time of the last collected report.",
		}),
	}
	e.registry.MustRegister(e.up, e.bytesPerSec, e.bytesTotal, e.lastReport)
	return e
}

func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) Observe(report model.ThroughputReport) {
	for _, m := range report.Interfaces {
		up := 0.0
		if m.Up {
			up = 1
		}
		e.up.WithLabelValues(m.Interface).Set(up)

		e.bytesPerSec.WithLabelValues(m.Interface, "rx").Set(float64(m.RxBytesPerSec))
		e.bytesPerSec.WithLabelValues(m.Interface, "tx").Set(float64(m.TxBytesPerSec))
		e.bytesPerSec.WithLabelValues(m.Interface, "all").Set(float64(m.BytesPerSec))

		e.bytesTotal.WithLabelValues(m.Interface, "rx").Set(float64(m.RxBytesTotal))
		e.bytesTotal.WithLabelValues(m.Interface, "tx").Set(float64(m.TxBytesTotal))
		e.bytesTotal.WithLabelValues(m.Interface, "all").Set(float64(m.BytesTotal))
	}
	e.lastReport.Set(float64(report.TimestampUnix))
}

// Handler serves /metrics and a JSON /healthz built from health.
func (e *Exporter) Handler(health func() map[string]any) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		snapshot := map[string]any{}
		if health != nil {
			snapshot = health()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	})
	return mux
}

// Serve runs an HTTP server on addr until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen metrics endpoint %s: %w", addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics endpoint %s: %w", addr, err)
	}
	return nil
}
