package netdev

import (
	"bufio"
	"os"
)

const (
	DefaultStatsPath = "/proc/net/dev"
	DefaultInterface = "eth0"
)

// ScanDevices returns the interface names declared in the statistics file at path,
// in file order. An unreadable file yields an empty list.
func ScanDevices(path string) []string {
	if path == "" {
		path = DefaultStatsPath
	}
	out := []string{}

	f, err := os.Open(path)
	if err != nil {
		return out
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		name, _, ok := splitLabel(s.Text())
		if !ok || name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// NewScanList builds one Sampler for every device found in path.
func NewScanList(path string) []*Sampler {
	if path == "" {
		path = DefaultStatsPath
	}
	names := ScanDevices(path)
	out := make([]*Sampler, 0, len(names))
	for _, name := range names {
		out = append(out, NewSampler(path, name))
	}
	return out
}
