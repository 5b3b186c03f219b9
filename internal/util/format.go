package util

import (
	"fmt"
	"time"
)

// FormatValue formats a measurement for table output. Integer-valued
// numbers print without a fraction, small magnitudes in scientific
// notation. Examples: 5 -> "5", 0.25 -> "0.25", 3.2e-12 -> "3.2e-12"
func FormatValue(v float64) string {
	if v == float64(int64(v)) && v > -1e15 && v < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	if v != 0 && v > -1e-3 && v < 1e-3 {
		return fmt.Sprintf("%.3g", v)
	}
	return fmt.Sprintf("%.4g", v)
}

// FormatDateTime formats a timestamp to date-time format (2006-01-02 15:04).
func FormatDateTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// FormatDuration formats an elapsed duration for display.
// Examples: 340ms, 2.4s, 1m12s
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
