package session

import "time"

// MaxNameBytes caps split and goal names; longer input is clipped.
const MaxNameBytes = 255

// Ref is a stable handle to a split. It stays valid as the tree grows
// and is invalidated only by Clear. The zero value None means "no
// split" (top-level parent, or no active split).
type Ref int

// None is the absent reference.
const None Ref = 0

// Split is a named timed interval. Start and End are elapsed-time
// offsets relative to the main timer's start, not wall times.
type Split struct {
	Ref    Ref
	Name   string
	Start  time.Duration
	End    time.Duration // meaningful only when Closed
	Closed bool
	Parent Ref // None for a top-level split
	Depth  int // 0 for top-level, parent depth+1 otherwise
}

// Duration returns End-Start for a closed split, zero otherwise.
func (s Split) Duration() time.Duration {
	if !s.Closed {
		return 0
	}
	return s.End - s.Start
}

// Tree is an append-only ordered collection of splits. Insertion order
// is display and log order. Splits are never removed individually; the
// only shrinking operation is Clear, which drops everything.
//
// Tree does not decide parenting policy: callers pass the parent
// explicitly and the Session layer decides what that should be.
type Tree struct {
	splits  []Split
	index   map[Ref]int
	nextRef Ref
	cap     int
}

// NewTree returns an empty tree holding at most capacity splits.
func NewTree(capacity int) *Tree {
	return &Tree{
		index:   make(map[Ref]int),
		nextRef: 1,
		cap:     capacity,
	}
}

// Open appends a new open split and returns its handle. parent may be
// None for a top-level split. Returns ErrCapacityExceeded when the
// tree is full and ErrInvalidRef when parent is unknown.
func (t *Tree) Open(parent Ref, name string, at time.Duration) (Ref, error) {
	if len(t.splits) >= t.cap {
		return None, ErrCapacityExceeded
	}
	depth := 0
	if parent != None {
		pi, ok := t.index[parent]
		if !ok {
			return None, ErrInvalidRef
		}
		depth = t.splits[pi].Depth + 1
	}
	if len(name) > MaxNameBytes {
		name = name[:MaxNameBytes]
	}
	ref := t.nextRef
	t.nextRef++
	t.index[ref] = len(t.splits)
	t.splits = append(t.splits, Split{
		Ref:    ref,
		Name:   name,
		Start:  at,
		Parent: parent,
		Depth:  depth,
	})
	return ref, nil
}

// Close sets the end offset of the referenced split. Closing a parent
// does not touch its children. Returns ErrInvalidRef for an unknown
// reference or a split that is already closed.
func (t *Tree) Close(ref Ref, at time.Duration) error {
	i, ok := t.index[ref]
	if !ok || t.splits[i].Closed {
		return ErrInvalidRef
	}
	t.splits[i].End = at
	t.splits[i].Closed = true
	return nil
}

// Parent returns the parent handle of ref. The second result is false
// when ref is unknown.
func (t *Tree) Parent(ref Ref) (Ref, bool) {
	i, ok := t.index[ref]
	if !ok {
		return None, false
	}
	return t.splits[i].Parent, true
}

// Get returns the split for ref.
func (t *Tree) Get(ref Ref) (Split, bool) {
	i, ok := t.index[ref]
	if !ok {
		return Split{}, false
	}
	return t.splits[i], true
}

// Splits returns the splits in insertion order. The returned slice is
// a copy; mutating it does not affect the tree.
func (t *Tree) Splits() []Split {
	out := make([]Split, len(t.splits))
	copy(out, t.splits)
	return out
}

// Len returns the number of splits.
func (t *Tree) Len() int { return len(t.splits) }

// Clear drops all splits. Handles issued before Clear become unknown;
// ref numbering keeps counting up so a stale handle can never alias a
// new split.
func (t *Tree) Clear() {
	t.splits = t.splits[:0]
	t.index = make(map[Ref]int)
}
