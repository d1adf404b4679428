package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationToken = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*([a-zA-Z]+)`)

var durationUnits = map[string]time.Duration{
	"w": 7 * 24 * time.Hour, "d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"h": time.Hour, "hr": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"t": time.Minute, "m": time.Minute, "min": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"s": time.Second, "sec": time.Second, "second": time.Second, "seconds": time.Second,
	"l": time.Millisecond, "ms": time.Millisecond,
	"u": time.Microsecond, "us": time.Microsecond,
	"n": time.Nanosecond, "ns": time.Nanosecond,
}

// ParseDuration accepts recorder-style period strings such as "24H 0T",
// "6H", "2D", "30M" or "1D12H" as well as Go durations ("90m").
// Units are case-insensitive; "M" and "T" both mean minutes.
func ParseDuration(s string) (time.Duration, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return 0, fmt.Errorf("parse duration: empty")
	}
	if d, err := time.ParseDuration(in); err == nil {
		return d, nil
	}
	var total time.Duration
	rest := in
	for strings.TrimSpace(rest) != "" {
		m := durationToken.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("parse duration %q: unexpected %q", s, strings.TrimSpace(rest))
		}
		unit, ok := durationUnits[strings.ToLower(m[2])]
		if !ok {
			return 0, fmt.Errorf("parse duration %q: unknown unit %q", s, m[2])
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", s, err)
		}
		total += time.Duration(n * float64(unit))
		rest = rest[len(m[0]):]
	}
	return total, nil
}
