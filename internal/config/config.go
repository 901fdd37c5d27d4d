package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"netload-agent/internal/netdev"
)

type StreamMode string

const (
	StreamModeLog       StreamMode = "log"
	StreamModeGRPC      StreamMode = "grpc"
	StreamModeWebSocket StreamMode = "websocket"
	HardcodedVersion    string     = "V0.3"
)

type Config struct {
	NodeID                string
	Hostname              string
	StatsPath             string
	Interfaces            []string
	PollInterval          time.Duration
	ShutdownTimeout       time.Duration
	CollectorErrorBackoff time.Duration
	StreamMode            StreamMode
	BackendGRPCAddr       string
	GRPCStreamMethod      string
	BackendWSURL          string
	BackendToken          string
	WebSocketWriteTimeout time.Duration
	TLSEnabled            bool
	TLSSkipVerify         bool
	TLSCAPath             string
	TLSCertPath           string
	TLSKeyPath            string
	ProbeListenAddr       string
	MetricsListenAddr     string
	AgentVersion          string
	LogJSON               bool
	LogLevel              string
}

func Load() (Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}

	cfg := Config{
		NodeID:                env("NETLOAD_NODE_ID", hostname),
		Hostname:              hostname,
		StatsPath:             env("NETLOAD_STATS_PATH", netdev.DefaultStatsPath),
		Interfaces:            envList("NETLOAD_INTERFACES"),
		PollInterval:          envDuration("NETLOAD_POLL_INTERVAL", 2*time.Second),
		ShutdownTimeout:       envDuration("NETLOAD_SHUTDOWN_TIMEOUT", 10*time.Second),
		CollectorErrorBackoff: envDuration("NETLOAD_COLLECTOR_ERROR_BACKOFF", 1500*time.Millisecond),
		StreamMode:            StreamMode(strings.ToLower(env("NETLOAD_STREAM_MODE", string(StreamModeLog)))),
		BackendGRPCAddr:       env("NETLOAD_BACKEND_GRPC_ADDR", "127.0.0.1:3001"),
		GRPCStreamMethod:      env("NETLOAD_GRPC_STREAM_METHOD", "/netload.v1.ThroughputService/StreamThroughput"),
		BackendWSURL:          env("NETLOAD_BACKEND_WS_URL", "ws://127.0.0.1:3001/ws/throughput"),
		BackendToken:          env("NETLOAD_BACKEND_TOKEN", ""),
		WebSocketWriteTimeout: envDuration("NETLOAD_WS_WRITE_TIMEOUT", 5*time.Second),
		TLSEnabled:            envBool("NETLOAD_TLS_ENABLED", false),
		TLSSkipVerify:         envBool("NETLOAD_TLS_SKIP_VERIFY", false),
		TLSCAPath:             env("NETLOAD_TLS_CA_PATH", ""),
		TLSCertPath:           env("NETLOAD_TLS_CERT_PATH", ""),
		TLSKeyPath:            env("NETLOAD_TLS_KEY_PATH", ""),
		ProbeListenAddr:       envAllowEmpty("NETLOAD_PROBE_ADDR", "127.0.0.1:7444"),
		MetricsListenAddr:     envAllowEmpty("NETLOAD_METRICS_ADDR", "127.0.0.1:9464"),
		AgentVersion:          HardcodedVersion,
		LogJSON:               envBool("NETLOAD_LOG_JSON", false),
		LogLevel:              strings.ToLower(env("NETLOAD_LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.NodeID == "" {
		return errors.New("NETLOAD_NODE_ID is required")
	}
	if strings.TrimSpace(c.AgentVersion) == "" {
		return errors.New("agent version must not be empty")
	}
	if strings.TrimSpace(c.StatsPath) == "" {
		return errors.New("NETLOAD_STATS_PATH is required")
	}
	if c.PollInterval <= 0 {
		return errors.New("NETLOAD_POLL_INTERVAL must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("NETLOAD_SHUTDOWN_TIMEOUT must be > 0")
	}
	switch c.StreamMode {
	case StreamModeLog, StreamModeGRPC, StreamModeWebSocket:
	default:
		return fmt.Errorf("unsupported stream mode %q", c.StreamMode)
	}
	if c.StreamMode == StreamModeGRPC {
		if c.BackendGRPCAddr == "" {
			return errors.New("NETLOAD_BACKEND_GRPC_ADDR is required for grpc mode")
		}
		if strings.TrimSpace(c.GRPCStreamMethod) == "" {
			return errors.New("NETLOAD_GRPC_STREAM_METHOD is required for grpc mode")
		}
	}
	if c.StreamMode == StreamModeWebSocket && c.BackendWSURL == "" {
		return errors.New("NETLOAD_BACKEND_WS_URL is required for websocket mode")
	}
	return nil
}

func (c Config) TLSConfig() (*tls.Config, error) {
	if !c.TLSEnabled {
		return nil, nil
	}
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: c.TLSSkipVerify}
	if c.TLSCAPath != "" {
		caBytes, err := os.ReadFile(c.TLSCAPath)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, errors.New("append CA cert failed")
		}
		tlsCfg.RootCAs = pool
	}
	if c.TLSCertPath != "" || c.TLSKeyPath != "" {
		if c.TLSCertPath == "" || c.TLSKeyPath == "" {
			return nil, errors.New("both TLS cert and key are required")
		}
		crt, err := tls.LoadX509KeyPair(c.TLSCertPath, c.TLSKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load mTLS cert/key: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{crt}
	}
	return tlsCfg, nil
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// envAllowEmpty lets an explicitly empty variable disable a listener.
func envAllowEmpty(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(v)
}

func envList(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
