// Package timefmt renders file modification times for table output.
package timefmt

import (
	"fmt"
	"time"
)

// Age returns a compact description of how long ago t occurred
// relative to reference. If reference is zero, time.Now() is used.
func Age(t, reference time.Time) string {
	if reference.IsZero() {
		reference = time.Now()
	}
	if t.IsZero() {
		return "unknown"
	}

	diff := reference.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	}
	days := int(diff.Hours() / 24)
	switch {
	case days < 31:
		return fmt.Sprintf("%dd", days)
	case days < 365:
		return fmt.Sprintf("%dmo", days/30)
	default:
		return fmt.Sprintf("%dy", days/365)
	}
}
