// Package rate renders byte rates as short strings such as "1.5kByte/s".
package rate

import (
	"math"
	"strconv"
)

type Unit int

const (
	UnitByte Unit = iota
	UnitBit
)

const undefined = "undef"

var suffixes = map[Unit][3]string{
	UnitByte: {"Byte/s", "kByte/s", "mByte/s"},
	UnitBit:  {"Bit/s", "kBit/s", "mBit/s"},
}

// FormatBytes formats bytesPerSecond in byte units.
func FormatBytes(bytesPerSecond uint64) string {
	return Format(bytesPerSecond, UnitByte)
}

// FormatBits formats bytesPerSecond in bit units.
func FormatBits(bytesPerSecond uint64) string {
	return Format(bytesPerSecond, UnitBit)
}

// Format scales bytesPerSecond to the largest non-zero of base, kilo and mega
// (powers of 1000) and appends one truncated decimal digit. A tier is only
// entered when the lower one exceeds 1000, so 1000 stays "1000Byte/s".
func Format(bytesPerSecond uint64, unit Unit) string {
	sfx, ok := suffixes[unit]
	if !ok {
		sfx = suffixes[UnitByte]
	}

	base := bytesPerSecond
	if unit == UnitBit {
		if base > math.MaxUint64/8 {
			base = math.MaxUint64
		} else {
			base *= 8
		}
	}

	var kilo, mega uint64
	if base > 1000 {
		kilo = base / 1000
		base %= 1000
	}
	if kilo > 1000 {
		mega = kilo / 1000
		kilo %= 1000
	}

	switch {
	case mega > 0:
		return decimal(mega, kilo) + sfx[2]
	case kilo > 0:
		return decimal(kilo, base) + sfx[1]
	case base > 0:
		return strconv.FormatUint(base, 10) + sfx[0]
	}
	return undefined
}

func decimal(major, remainder uint64) string {
	return strconv.FormatUint(major, 10) + "." + strconv.FormatUint(remainder/100, 10)
}
