package stream

import (
	"context"
	"encoding/json"

	"netload-agent/internal/model"
)

type Sink interface {
	SendThroughput(ctx context.Context, report model.ThroughputReport) error
	Close(ctx context.Context) error
}

type ThroughputFrame struct {
	NodeID        string                      `json:"node_id"`
	TimestampUnix int64                       `json:"timestamp_unix"`
	Interfaces    []model.InterfaceThroughput `json:"interfaces"`
}

func NewThroughputFrame(report model.ThroughputReport) ThroughputFrame {
	return ThroughputFrame{
		NodeID:        report.NodeID,
		TimestampUnix: report.TimestampUnix,
		Interfaces:    append([]model.InterfaceThroughput(nil), report.Interfaces...),
	}
}

func NewThroughputEnvelope(report model.ThroughputReport) model.Envelope {
	return model.Envelope{
		Type:          model.MetricTypeThroughput,
		NodeID:        report.NodeID,
		TimestampUnix: report.TimestampUnix,
		Payload:       NewThroughputFrame(report),
	}
}

func EncodeEnvelope(e model.Envelope) ([]byte, error) {
	return json.Marshal(e)
}
