package clock

import "time"

// Fake is a manually advanced Clock for tests. The monotonic and wall
// readings advance together.
type Fake struct {
	now  time.Time
	wall time.Time
}

// NewFake returns a Fake anchored at the given wall time.
func NewFake(wall time.Time) *Fake {
	return &Fake{now: wall, wall: wall}
}

func (f *Fake) Now() time.Time     { return f.now }
func (f *Fake) WallNow() time.Time { return f.wall }

// Advance moves both readings forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.now = f.now.Add(d)
	f.wall = f.wall.Add(d)
}

// AdvanceWall moves only the wall reading, simulating a wall-clock
// adjustment the monotonic source does not see.
func (f *Fake) AdvanceWall(d time.Duration) {
	f.wall = f.wall.Add(d)
}
