package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgwatch/orgwatch/internal/clock"
)

var wallBase = time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)

func newTestSession() (*Session, *clock.Fake) {
	fake := clock.NewFake(wallBase)
	return New(fake, 0), fake
}

func TestStartToggles(t *testing.T) {
	s, fake := newTestSession()
	assert.Equal(t, Idle, s.State())

	assert.Equal(t, Running, s.Start("write report"))
	assert.Equal(t, "write report", s.Goal())
	assert.Equal(t, wallBase, s.WallStart())

	fake.Advance(5 * time.Second)
	assert.Equal(t, Paused, s.Start(""))
	assert.Equal(t, 5*time.Second, s.Elapsed())

	// Time passing while paused is not counted.
	fake.Advance(3 * time.Second)
	assert.Equal(t, 5*time.Second, s.Elapsed())

	assert.Equal(t, Running, s.Start("ignored while paused"))
	assert.Equal(t, "write report", s.Goal())
	fake.Advance(2 * time.Second)
	assert.Equal(t, 7*time.Second, s.Elapsed())
}

func TestElapsedAcrossManyToggles(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")

	var want time.Duration
	steps := []time.Duration{
		time.Second, 250 * time.Millisecond, 3 * time.Second, 10 * time.Millisecond,
	}
	for _, step := range steps {
		fake.Advance(step)
		want += step
		s.Start("") // pause
		fake.Advance(time.Minute)
		assert.Equal(t, want, s.Elapsed())
		s.Start("") // resume
	}
	assert.Equal(t, want, s.Elapsed())
}

func TestOpenSplitNestsUnderActive(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")

	a, err := s.OpenSplit("a", false)
	require.NoError(t, err)
	assert.Equal(t, a, s.Active())

	fake.Advance(time.Second)
	// Non-nested open still parents under the active split.
	b, err := s.OpenSplit("b", false)
	require.NoError(t, err)

	splits := s.Splits()
	require.Len(t, splits, 2)
	assert.Equal(t, a, splits[1].Parent)
	assert.Equal(t, 1, splits[1].Depth)
	assert.Equal(t, b, s.Active())
}

func TestOpenSplitNestedRequiresActive(t *testing.T) {
	s, _ := newTestSession()
	s.Start("goal")

	_, err := s.OpenSplit("orphan", true)
	assert.ErrorIs(t, err, ErrNoActiveSplit)
	assert.Equal(t, 0, s.SplitCount(), "rejected open must not change the tree")
}

func TestOpenSplitOnlyWhileRunning(t *testing.T) {
	s, _ := newTestSession()

	_, err := s.OpenSplit("idle", false)
	assert.ErrorIs(t, err, ErrInvalidState)

	s.Start("goal")
	s.Start("") // pause
	_, err = s.OpenSplit("paused", false)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, s.SplitCount())
}

func TestCloseActiveSplitMovesToParent(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")

	a, _ := s.OpenSplit("a", false)
	fake.Advance(2 * time.Second)
	b, _ := s.OpenSplit("b", true)
	fake.Advance(3 * time.Second)

	require.NoError(t, s.CloseActiveSplit())
	assert.Equal(t, a, s.Active())

	got, ok := s.ActiveSplit()
	require.True(t, ok)
	assert.False(t, got.Closed)

	splits := s.Splits()
	closed := splits[1]
	assert.Equal(t, b, closed.Ref)
	assert.True(t, closed.Closed)
	assert.GreaterOrEqual(t, closed.End, closed.Start)

	require.NoError(t, s.CloseActiveSplit())
	assert.Equal(t, None, s.Active())

	assert.ErrorIs(t, s.CloseActiveSplit(), ErrNoActiveSplit)
}

func TestMoveUpLeavesSplitsUntouched(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")

	s.OpenSplit("a", false)
	fake.Advance(time.Second)
	s.OpenSplit("b", true)

	before := s.Splits()
	require.NoError(t, s.MoveUp())
	require.NoError(t, s.MoveUp())
	assert.Equal(t, None, s.Active())
	assert.Equal(t, before, s.Splits())

	assert.ErrorIs(t, s.MoveUp(), ErrNoActiveSplit)
}

// Mirrors the canonical walkthrough: splits A (0..10, depth 0) and
// B (5..8, depth 1) with B nested under A.
func TestNestedSplitScenario(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")

	_, err := s.OpenSplit("A", false)
	require.NoError(t, err)

	fake.Advance(5 * time.Second)
	_, err = s.OpenSplit("B", true)
	require.NoError(t, err)

	fake.Advance(3 * time.Second)
	require.NoError(t, s.CloseActiveSplit()) // closes B at t=8

	fake.Advance(2 * time.Second)
	require.NoError(t, s.CloseActiveSplit()) // closes A at t=10
	assert.Equal(t, None, s.Active())

	s.Start("") // stop at t=10
	assert.Equal(t, 10*time.Second, s.Elapsed())

	splits := s.Splits()
	require.Len(t, splits, 2)

	assert.Equal(t, "A", splits[0].Name)
	assert.Equal(t, time.Duration(0), splits[0].Start)
	assert.Equal(t, 10*time.Second, splits[0].End)
	assert.Equal(t, 0, splits[0].Depth)

	assert.Equal(t, "B", splits[1].Name)
	assert.Equal(t, 5*time.Second, splits[1].Start)
	assert.Equal(t, 8*time.Second, splits[1].End)
	assert.Equal(t, 1, splits[1].Depth)
}

func TestDepthInvariantAcrossOperations(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")

	check := func() {
		t.Helper()
		byRef := map[Ref]Split{}
		for _, sp := range s.Splits() {
			byRef[sp.Ref] = sp
		}
		for _, sp := range s.Splits() {
			if sp.Parent == None {
				assert.Equal(t, 0, sp.Depth)
				continue
			}
			parent, ok := byRef[sp.Parent]
			require.True(t, ok)
			assert.Equal(t, parent.Depth+1, sp.Depth)
		}
	}

	s.OpenSplit("a", false)
	check()
	fake.Advance(time.Second)
	s.OpenSplit("b", true)
	check()
	s.MoveUp()
	s.OpenSplit("c", false) // sibling of b under a
	check()
	s.CloseActiveSplit()
	check()
	s.MoveUp()
	s.OpenSplit("d", false) // top level after moving past a
	check()
}

func TestResetWhileRunningDropsOpenSplits(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")
	s.OpenSplit("a", false)
	fake.Advance(time.Second)
	s.OpenSplit("b", true)

	s.Reset()

	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Goal())
	assert.Equal(t, None, s.Active())
	assert.Equal(t, 0, s.SplitCount())
	assert.Equal(t, time.Duration(0), s.Elapsed())
}

func TestStartAfterResetBeginsFresh(t *testing.T) {
	s, fake := newTestSession()
	s.Start("first")
	fake.Advance(4 * time.Second)
	s.OpenSplit("a", false)
	s.Reset()

	fake.Advance(time.Minute)
	s.Start("second")
	assert.Equal(t, "second", s.Goal())
	assert.Equal(t, time.Duration(0), s.Elapsed())
	assert.Equal(t, 0, s.SplitCount())
	assert.Equal(t, wallBase.Add(4*time.Second+time.Minute), s.WallStart())
}

func TestCapacityRejectionKeepsActive(t *testing.T) {
	fake := clock.NewFake(wallBase)
	s := New(fake, 1)
	s.Start("goal")

	a, err := s.OpenSplit("a", false)
	require.NoError(t, err)

	_, err = s.OpenSplit("b", false)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, a, s.Active(), "rejected open must not move the active split")
	assert.Equal(t, 1, s.SplitCount())
}

func TestSplitStartIsElapsedOffsetNotWall(t *testing.T) {
	s, fake := newTestSession()
	s.Start("goal")
	fake.Advance(2 * time.Second)
	s.Start("") // pause at 2s
	fake.Advance(time.Hour)
	s.Start("") // resume
	fake.Advance(time.Second)

	s.OpenSplit("late", false)
	splits := s.Splits()
	require.Len(t, splits, 1)
	assert.Equal(t, 3*time.Second, splits[0].Start, "paused time must not leak into split offsets")
}
