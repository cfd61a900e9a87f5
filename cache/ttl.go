package cache

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/viborm/viborm/verr"
)

// ttlPattern splits a human-readable TTL string into its numeric quantity
// and unit, e.g. "2.5 h" -> ("2.5", "h"), "20 seconds" -> ("20", "seconds").
var ttlPattern = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*([a-zA-Z]*)\s*$`)

// ParseTTL resolves a TTL value given as a time.Duration, a numeric type
// (milliseconds, passed through per spec §4.8) or a human-readable string
// ("1 hour", "20 seconds", "2.5 h"). A non-positive TTL is rejected.
func ParseTTL(ttl any) (time.Duration, error) {
	switch t := ttl.(type) {
	case time.Duration:
		return checkPositive(t, t.String())
	case int:
		return millis(int64(t))
	case int32:
		return millis(int64(t))
	case int64:
		return millis(t)
	case float64:
		return millis(int64(t))
	case string:
		return parseTTLString(t)
	default:
		return 0, verr.InvalidTTL("unsupported TTL type")
	}
}

func millis(ms int64) (time.Duration, error) {
	return checkPositive(time.Duration(ms)*time.Millisecond, strconv.FormatInt(ms, 10))
}

func checkPositive(d time.Duration, repr string) (time.Duration, error) {
	if d <= 0 {
		return 0, verr.InvalidTTL(repr)
	}
	return d, nil
}

func parseTTLString(s string) (time.Duration, error) {
	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, verr.InvalidTTL(s)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, verr.InvalidTTL(s)
	}
	unit := strings.ToLower(m[2])
	var perUnit time.Duration
	switch {
	case unit == "":
		// A bare number with no unit is treated as milliseconds, matching
		// the numeric-TTL passthrough rule for the string-typed case.
		perUnit = time.Millisecond
	case strings.HasPrefix(unit, "ms") || strings.HasPrefix(unit, "milli"):
		perUnit = time.Millisecond
	case unit == "s" || strings.HasPrefix(unit, "sec"):
		perUnit = time.Second
	case unit == "m" || strings.HasPrefix(unit, "min"):
		perUnit = time.Minute
	case unit == "h" || strings.HasPrefix(unit, "hr") || strings.HasPrefix(unit, "hour"):
		perUnit = time.Hour
	case unit == "d" || strings.HasPrefix(unit, "day"):
		perUnit = 24 * time.Hour
	default:
		return 0, verr.InvalidTTL(s)
	}
	d := time.Duration(n * float64(perUnit))
	return checkPositive(d, s)
}
