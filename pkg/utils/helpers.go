package utils

import (
	"strings"
	"time"
)

// ParseDuration safely parses duration strings like "5m", falling back
// to the given default on empty or malformed input
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return fallback
	}
	return duration
}

// Clamp bounds v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Numeric safely converts supported scalar types to float64
func Numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	}
	return 0, false
}

// WordCount counts whitespace-separated words
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Truncate shortens s to at most n runes, appending an ellipsis
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
