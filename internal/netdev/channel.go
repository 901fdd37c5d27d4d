package netdev

import (
	"math"
	"time"
)

// Channel identifies one of the independent rate lineages of a Sampler.
type Channel int

const (
	ChannelCombined Channel = iota
	ChannelRx
	ChannelTx

	channelCount
)

func (c Channel) String() string {
	switch c {
	case ChannelCombined:
		return "combined"
	case ChannelRx:
		return "rx"
	case ChannelTx:
		return "tx"
	default:
		return "unknown"
	}
}

func (c Channel) fields() []Field {
	switch c {
	case ChannelRx:
		return []Field{RxBytes}
	case ChannelTx:
		return []Field{TxBytes}
	default:
		return []Field{RxBytes, TxBytes}
	}
}

// baseline is the previous (time, cumulative bytes) pair of a rate channel.
type baseline struct {
	at     time.Time
	value  uint64
	seeded bool
}

// observe stores cur as the new baseline and returns delta*1000/ms/1000 against
// the previous one. A counter lower than the baseline is treated as a reset and
// its whole value counts as the delta.
func (b *baseline) observe(now time.Time, cur uint64) uint64 {
	prev := *b
	*b = baseline{at: now, value: cur, seeded: true}
	if !prev.seeded {
		return 0
	}

	ms := now.Sub(prev.at).Milliseconds()
	if ms < 1 {
		ms = 1
	}
	delta := cur
	if cur >= prev.value {
		delta = cur - prev.value
	}
	return perSecond(delta, uint64(ms))
}

func perSecond(delta, ms uint64) uint64 {
	if delta > math.MaxUint64/1000 {
		return delta / ms
	}
	return delta * 1000 / ms / 1000
}
