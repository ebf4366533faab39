// Package clock abstracts the two time sources the timer needs: a
// monotonic instant for elapsed-time math and a wall-clock timestamp
// for log stamps.
package clock

import "time"

// Clock provides monotonic and wall-clock readings.
type Clock interface {
	// Now returns a monotonic-bearing instant. Differences between two
	// Now values are immune to wall-clock adjustments.
	Now() time.Time

	// WallNow returns the local calendar time, used only for log stamps.
	WallNow() time.Time
}

// System reads the real clock. time.Now carries a monotonic reading, so
// Sub on two Now results measures true elapsed time.
type System struct{}

func (System) Now() time.Time     { return time.Now() }
func (System) WallNow() time.Time { return time.Now() }
