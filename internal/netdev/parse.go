package netdev

import (
	"strconv"
	"strings"
)

// splitLabel splits a row into its interface label and the counter text after the
// first colon. ok is false for header rows.
func splitLabel(row string) (name, rest string, ok bool) {
	parts := strings.SplitN(row, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), parts[1], true
}

// ParseLine parses one interface row such as
//
//	  eth0: 1234 10 0 0 0 0 0 0 5678 12 0 0 0 0 0 0
//
// Numeric tokens fill the columns in order; tokens that are not unsigned integers
// are skipped and do not take a column. ok is false when row has no label.
func ParseLine(row string) (Line, bool) {
	name, rest, ok := splitLabel(row)
	if !ok || name == "" {
		return Line{}, false
	}
	line := Line{Interface: name}
	next := RxBytes
	for _, token := range strings.Fields(rest) {
		if next >= fieldCount {
			break
		}
		v, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			continue
		}
		line.set(next, v)
		next++
	}
	return line, true
}
