package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const notAvailable = "n/a"

// FormatMinutesShort renders an average response time: "<1 min", "3.5 min" or "n/a".
func FormatMinutesShort(minutes *float64) string {
	if minutes == nil {
		return notAvailable
	}
	if *minutes < 1 {
		return "<1 min"
	}
	return fmt.Sprintf("%.1f min", *minutes)
}

// FormatDuration renders whole seconds as "2d 3h 15m", dropping empty leading units.
func FormatDuration(seconds float64) string {
	total := int64(seconds)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

// FormatPeakHour renders the busiest hour bucket as "21:00 - 22:00".
func FormatPeakHour(hourly []int) string {
	if len(hourly) == 0 {
		return notAvailable
	}
	best := 0
	for i, n := range hourly {
		if n > hourly[best] {
			best = i
		}
	}
	return fmt.Sprintf("%02d:00 - %02d:00", best, (best+1)%24)
}

// FormatDateLabel turns a YYYY-MM-DD date into "12 March 2024" using the locale's month names.
// Unparsable input is returned unchanged.
func FormatDateLabel(date string, loc Locale) string {
	if date == "" {
		return notAvailable
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", t.Day(), loc.Months[t.Month()-1], t.Year())
}

// round1 rounds to one decimal place, sending exact halves to the even digit.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

func clamp(lo, hi, v float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
