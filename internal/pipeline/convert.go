package pipeline

import (
	"math"
	"strconv"
	"time"
)

// ToHours converts seconds to hours, rounded half-up to two decimal places.
func ToHours(seconds float64) float64 {
	return math.Round(seconds/3600*100) / 100
}

// LocalDateStamp formats t as YYYY-MM-DD using its own (local) calendar
// fields, zero-padded.
func LocalDateStamp(t time.Time) string {
	return t.Format("2006-01-02")
}

// PickTop returns the first n items. The caller pre-sorts by descending
// seconds; PickTop never reorders. Nil or empty input yields an empty slice.
func PickTop[T any](items []T, n int) []T {
	if len(items) == 0 || n <= 0 {
		return []T{}
	}
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// formatNumber renders a float without padded zeros: 1.5 stays "1.5", 100
// stays "100".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
