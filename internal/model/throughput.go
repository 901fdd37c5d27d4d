package model

// InterfaceThroughput is one sampling pass over a single network interface.
type InterfaceThroughput struct {
	NodeID        string `json:"node_id"`
	Interface     string `json:"interface"`
	Up            bool   `json:"up"`
	TimestampUnix int64  `json:"timestamp_unix"`

	RxBytesTotal uint64 `json:"rx_bytes_total"`
	TxBytesTotal uint64 `json:"tx_bytes_total"`
	BytesTotal   uint64 `json:"bytes_total"`

	RxBytesPerSec uint64 `json:"rx_bytes_per_sec"`
	TxBytesPerSec uint64 `json:"tx_bytes_per_sec"`
	BytesPerSec   uint64 `json:"bytes_per_sec"`

	Rate    string `json:"rate"`
	BitRate string `json:"bit_rate"`
}

type ThroughputReport struct {
	NodeID        string                `json:"node_id"`
	TimestampUnix int64                 `json:"timestamp_unix"`
	Interfaces    []InterfaceThroughput `json:"interfaces"`
}
