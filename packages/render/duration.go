package render

import (
	"fmt"
	"math"
	"strconv"
)

// FormatDuration renders a millisecond count as natural language, e.g.
// "1 hour, 2 minutes and 3.500 seconds". Zero-valued higher tiers are
// omitted; seconds are always present, with three decimals when fractional.
func FormatDuration(ms float64) string {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		ms = 0
	}

	secs := ms / 1000
	hours := math.Floor(secs / 3600)
	secs -= hours * 3600
	minutes := math.Floor(secs / 60)
	secs -= minutes * 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%.0f %s", hours, Plural("hour", hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%.0f %s", minutes, Plural("minute", minutes)))
	}
	if secs == math.Trunc(secs) {
		parts = append(parts, fmt.Sprintf("%.0f %s", secs, Plural("second", secs)))
	} else {
		parts = append(parts, fmt.Sprintf("%.3f %s", secs, Plural("second", secs)))
	}

	return Join(parts)
}

// FormatMillis renders a per-test duration in compact millisecond form
// ("5ms", "0.83ms"), trimming trailing zeros.
func FormatMillis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
}
