// Package session holds the timer state machine and the split tree it
// drives. All mutation goes through Session methods; a rejected command
// returns a sentinel error and changes nothing.
package session

import (
	"time"

	"github.com/orgwatch/orgwatch/internal/clock"
)

// State is the main timer's run state.
type State int

const (
	// Idle means never started, or freshly reset.
	Idle State = iota
	// Running means the main timer is advancing.
	Running
	// Paused means the timer is stopped with all data retained.
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// DefaultMaxSplits bounds the split tree when no limit is configured.
const DefaultMaxSplits = 50

// Session is the timer state machine plus the split tree it owns.
// It is not safe for concurrent use; the TUI event loop serializes
// all access.
type Session struct {
	clk  clock.Clock
	tree *Tree

	state       State
	goal        string
	accumulated time.Duration // elapsed across prior run intervals
	anchor      time.Time     // monotonic instant of the last start
	wallStart   time.Time     // wall clock of the first start since reset
	active      Ref
}

// New returns an idle session. maxSplits <= 0 selects DefaultMaxSplits.
func New(clk clock.Clock, maxSplits int) *Session {
	if maxSplits <= 0 {
		maxSplits = DefaultMaxSplits
	}
	return &Session{
		clk:  clk,
		tree: NewTree(maxSplits),
	}
}

// Start toggles the main timer. From Idle it begins a fresh session
// under the given goal name: the split tree is cleared, the elapsed
// accumulator zeroed, and the wall-clock start recorded. From Paused it
// resumes, keeping goal and splits; goal is ignored. From Running it
// stops instead, folding the current run interval into the accumulator.
// The resulting state is returned.
func (s *Session) Start(goal string) State {
	switch s.state {
	case Running:
		s.accumulated += s.clk.Now().Sub(s.anchor)
		s.state = Paused
	case Paused:
		s.anchor = s.clk.Now()
		s.state = Running
	default: // Idle
		if len(goal) > MaxNameBytes {
			goal = goal[:MaxNameBytes]
		}
		s.goal = goal
		s.tree.Clear()
		s.active = None
		s.accumulated = 0
		s.anchor = s.clk.Now()
		s.wallStart = s.clk.WallNow()
		s.state = Running
	}
	return s.state
}

// Reset returns to Idle from any state, discarding the goal, the
// accumulator, and every split. Open splits are dropped unclosed.
func (s *Session) Reset() {
	s.state = Idle
	s.goal = ""
	s.accumulated = 0
	s.active = None
	s.tree.Clear()
}

// OpenSplit opens a new split at the current elapsed offset and makes
// it the active one. With nested set, an active split is required and
// the new split becomes its child. Without nested, the split still
// nests under the active split when one exists, and is top-level
// otherwise. Only valid while Running.
func (s *Session) OpenSplit(name string, nested bool) (Ref, error) {
	if s.state != Running {
		return None, ErrInvalidState
	}
	if nested && s.active == None {
		return None, ErrNoActiveSplit
	}
	ref, err := s.tree.Open(s.active, name, s.Elapsed())
	if err != nil {
		return None, err
	}
	s.active = ref
	return ref, nil
}

// CloseActiveSplit closes the active split at the current elapsed
// offset and moves the active reference to its parent, which may be
// None. Ancestors stay open until closed themselves.
func (s *Session) CloseActiveSplit() error {
	if s.active == None {
		return ErrNoActiveSplit
	}
	if err := s.tree.Close(s.active, s.Elapsed()); err != nil {
		return err
	}
	parent, _ := s.tree.Parent(s.active)
	s.active = parent
	return nil
}

// MoveUp re-points the active reference at its parent without closing
// anything. The active reference may become None.
func (s *Session) MoveUp() error {
	if s.active == None {
		return ErrNoActiveSplit
	}
	parent, _ := s.tree.Parent(s.active)
	s.active = parent
	return nil
}

// Elapsed returns the accumulated run time. While Running it includes
// the interval since the last anchor; otherwise it is the accumulator
// alone. Pure read, no state change.
func (s *Session) Elapsed() time.Duration {
	if s.state == Running {
		return s.accumulated + s.clk.Now().Sub(s.anchor)
	}
	return s.accumulated
}

// State returns the current run state.
func (s *Session) State() State { return s.state }

// Goal returns the main goal name, empty while Idle.
func (s *Session) Goal() string { return s.goal }

// Active returns the active split handle, None when there is none.
func (s *Session) Active() Ref { return s.active }

// ActiveSplit returns the active split, if any.
func (s *Session) ActiveSplit() (Split, bool) {
	if s.active == None {
		return Split{}, false
	}
	return s.tree.Get(s.active)
}

// WallStart returns the wall-clock time of the first start since the
// last reset. Zero while Idle.
func (s *Session) WallStart() time.Time { return s.wallStart }

// Splits returns all splits in insertion order.
func (s *Session) Splits() []Split { return s.tree.Splits() }

// SplitCount returns the number of splits in the tree.
func (s *Session) SplitCount() int { return s.tree.Len() }
