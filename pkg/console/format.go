// Package console renders human-readable summaries of hook, autofix,
// and quality-gate results for cmd/crackerjack. It is intentionally
// free of side effects beyond returning strings: no package here
// writes to stdout directly, which keeps it testable without a TTY.
package console

import (
	"fmt"
	"time"
)

// FormatFileSize formats file sizes in a human-readable way (e.g., "1.2 KB", "3.4 MB").
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0 B"
	}

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB"}
	if exp >= len(units) {
		exp = len(units) - 1
		div = int64(1) << (10 * (exp + 1))
	}

	return fmt.Sprintf("%.1f %s", float64(size)/float64(div), units[exp])
}

// FormatNumber formats a count with a k/M suffix once it grows large
// enough that a bare digit string stops being scannable in a report
// (e.g. a 14,382-line duplication count).
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.2fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FormatNumberOrEmpty formats a number, or returns an empty string for
// zero so a report line can omit a metric nobody cares about at 0.
func FormatNumberOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return FormatNumber(n)
}

// FormatIntOrEmpty formats a plain int, or returns an empty string for zero.
func FormatIntOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

// FormatDuration renders a duration the way a hook's timing line does:
// sub-second durations in milliseconds, everything else in seconds.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// TruncateString truncates a string to maxLen with an ellipsis, used
// to keep a long tool message on one report line.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen > 3 {
		return s[:maxLen-3] + "..."
	}
	return s[:maxLen]
}
