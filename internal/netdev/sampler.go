package netdev

import (
	"bufio"
	"os"

	"github.com/benbjohnson/clock"
)

// Sampler reads the counters of one interface from a /proc/net/dev style file.
// Every accessor except IsDeviceUp and DeviceName re-reads the file first.
//
// A Sampler is not safe for concurrent use.
type Sampler struct {
	path  string
	name  string
	clock clock.Clock

	line      Line
	available bool
	channels  [channelCount]baseline
}

// NewSampler binds a Sampler to the interface name in the file at path. Empty
// arguments fall back to DefaultStatsPath and DefaultInterface.
func NewSampler(path, name string) *Sampler {
	return NewSamplerWithClock(path, name, clock.New())
}

// NewSamplerWithClock is NewSampler with an explicit clock.
func NewSamplerWithClock(path, name string, clk clock.Clock) *Sampler {
	if path == "" {
		path = DefaultStatsPath
	}
	if name == "" {
		name = DefaultInterface
	}
	if clk == nil {
		clk = clock.New()
	}
	s := &Sampler{path: path, name: name, clock: clk}
	s.Refresh()

	now := s.clock.Now()
	for c := ChannelCombined; c < channelCount; c++ {
		if v, ok := s.line.sum(c.fields()...); ok {
			s.channels[c] = baseline{at: now, value: v, seeded: true}
		}
	}
	return s
}

// Refresh re-reads the statistics file. When the interface row is missing or the
// file cannot be opened the device is marked down and the stored counters are
// kept as they were.
func (s *Sampler) Refresh() {
	f, err := os.Open(s.path)
	if err != nil {
		s.available = false
		return
	}
	defer f.Close()

	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		row := sc.Text()
		name, _, ok := splitLabel(row)
		if !ok || name != s.name {
			continue
		}
		parsed, _ := ParseLine(row)
		s.line.merge(parsed)
		found = true
		break
	}
	s.available = found
}

func (s *Sampler) BytesSinceStartup() uint64 {
	return s.total(ChannelCombined)
}

func (s *Sampler) RxBytesSinceStartup() uint64 {
	return s.total(ChannelRx)
}

func (s *Sampler) TxBytesSinceStartup() uint64 {
	return s.total(ChannelTx)
}

// BytesPerSecond returns received plus transmitted bytes per second since the
// previous BytesPerSecond call.
func (s *Sampler) BytesPerSecond() uint64 {
	return s.rate(ChannelCombined)
}

// RxBytesPerSecond returns received bytes per second since the previous
// RxBytesPerSecond call.
func (s *Sampler) RxBytesPerSecond() uint64 {
	return s.rate(ChannelRx)
}

// TxBytesPerSecond returns transmitted bytes per second since the previous
// TxBytesPerSecond call.
func (s *Sampler) TxBytesPerSecond() uint64 {
	return s.rate(ChannelTx)
}

// IsDeviceUp reports whether the interface row was present on the last read.
func (s *Sampler) IsDeviceUp() bool {
	return s.available
}

func (s *Sampler) DeviceName() string {
	return s.name
}

func (s *Sampler) Path() string {
	return s.path
}

// Line returns a copy of the last known counters.
func (s *Sampler) Line() Line {
	return s.line
}

func (s *Sampler) total(c Channel) uint64 {
	s.Refresh()
	v, _ := s.line.sum(c.fields()...)
	return v
}

func (s *Sampler) rate(c Channel) uint64 {
	s.Refresh()
	cur, ok := s.line.sum(c.fields()...)
	if !ok {
		return 0
	}
	return s.channels[c].observe(s.clock.Now(), cur)
}
