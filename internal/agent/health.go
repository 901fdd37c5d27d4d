package agent

import (
	"sync/atomic"
	"time"

	"netload-agent/internal/model"
)

type HealthStatus struct {
	streamConnected atomic.Bool
	lastSampleAt    atomic.Int64
	interfacesUp    atomic.Int64
	interfacesTotal atomic.Int64
}

func NewHealthStatus() *HealthStatus {
	h := &HealthStatus{}
	h.streamConnected.Store(false)
	return h
}

func (h *HealthStatus) SetStreamConnected(ok bool) {
	h.streamConnected.Store(ok)
}

func (h *HealthStatus) MarkSample(ts time.Time) {
	h.lastSampleAt.Store(ts.UnixNano())
}

// Observe records the sample time and interface availability of a report.
func (h *HealthStatus) Observe(report model.ThroughputReport) {
	var up int64
	for _, m := range report.Interfaces {
		if m.Up {
			up++
		}
	}
	h.interfacesUp.Store(up)
	h.interfacesTotal.Store(int64(len(report.Interfaces)))
	if report.TimestampUnix > 0 {
		h.MarkSample(time.Unix(report.TimestampUnix, 0).UTC())
	}
}

func (h *HealthStatus) Snapshot() map[string]any {
	out := map[string]any{
		"stream_connected": h.streamConnected.Load(),
		"interfaces_up":    h.interfacesUp.Load(),
		"interfaces_total": h.interfacesTotal.Load(),
	}
	if v := h.lastSampleAt.Load(); v > 0 {
		out["last_sample_at"] = time.Unix(0, v).UTC()
	}
	return out
}
