package session

import "errors"

// Sentinel errors for rejected commands. A rejected command is always a
// no-op: the session and split tree are left exactly as they were.
var (
	// ErrInvalidState reports a transition attempted from a state that
	// forbids it (e.g. opening a split while the timer is stopped).
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrNoActiveSplit reports an operation that needs an active split
	// when there is none.
	ErrNoActiveSplit = errors.New("no active split")

	// ErrCapacityExceeded reports that the split tree is full.
	ErrCapacityExceeded = errors.New("split capacity exceeded")

	// ErrInvalidRef reports a stale or unknown split reference, or an
	// attempt to close a split that is already closed.
	ErrInvalidRef = errors.New("invalid split reference")
)
