// Package timefmt formats durations for display and for the org log.
package timefmt

import (
	"fmt"
	"time"
)

// Format renders d as "HH:MM:SS.mmm", truncating (not rounding) to
// millisecond resolution. The hours field widens past two digits for
// sessions over 99 hours rather than wrapping. Negative durations
// render as zero.
func Format(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1_000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1_000)
}

// Blank is the placeholder shown for a clock field that has no value
// yet, matching the width of Format output.
const Blank = "--:--:--.---"
