package netdev

// Field is a positional column of a /proc/net/dev interface row.
type Field int

const (
	RxBytes Field = iota
	RxPackets
	RxErrs
	RxDrop
	RxFifo
	RxFrame
	RxCompressed
	RxMulticast
	TxBytes
	TxPackets
	TxErrs
	TxDrop
	TxFifo
	TxColls
	TxCarrier
	TxCompressed

	fieldCount
)

var fieldNames = [fieldCount]string{
	"RXbytes",
	"RXpackets",
	"RXerrs",
	"RXdrop",
	"RXfifo",
	"RXframe",
	"RXcompressed",
	"RXmulticast",
	"TXbytes",
	"TXpackets",
	"TXerrs",
	"TXdrop",
	"TXfifo",
	"TXcolls",
	"TXcarrier",
	"TXcompressed",
}

// Fields returns every column in file order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := RxBytes; f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// Line holds the counters parsed from one interface row. A field that was never
// parsed is absent rather than zero.
type Line struct {
	Interface string

	values  [fieldCount]uint64
	present [fieldCount]bool
}

// Get returns the value of f and whether it has been parsed.
func (l Line) Get(f Field) (uint64, bool) {
	if f < 0 || f >= fieldCount {
		return 0, false
	}
	return l.values[f], l.present[f]
}

// Len reports how many fields are present.
func (l Line) Len() int {
	n := 0
	for _, ok := range l.present {
		if ok {
			n++
		}
	}
	return n
}

// Map returns the present fields keyed by column name.
func (l Line) Map() map[string]uint64 {
	out := make(map[string]uint64, fieldCount)
	for f := RxBytes; f < fieldCount; f++ {
		if l.present[f] {
			out[fieldNames[f]] = l.values[f]
		}
	}
	return out
}

func (l *Line) set(f Field, v uint64) {
	l.values[f] = v
	l.present[f] = true
}

// merge overwrites fields present in next and keeps the rest.
func (l *Line) merge(next Line) {
	if next.Interface != "" {
		l.Interface = next.Interface
	}
	for f := RxBytes; f < fieldCount; f++ {
		if next.present[f] {
			l.set(f, next.values[f])
		}
	}
}

func (l Line) sum(fields ...Field) (uint64, bool) {
	var total uint64
	for _, f := range fields {
		v, ok := l.Get(f)
		if !ok {
			return 0, false
		}
		total += v
	}
	return total, true
}
