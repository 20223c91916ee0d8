package models

import "errors"

// Engine error taxonomy. Callers classify failures with errors.Is; the
// wrapped message carries the specifics (colliding reservation id, the
// offending status pair, and so on).
var (
	// ErrInvalidDateRange means check-out is not strictly after check-in.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrCapacityExceeded means the guest count is outside 1..100 or above
	// the room's capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrDateConflict means another Booked/CheckedIn reservation on the same
	// room overlaps the requested date range.
	ErrDateConflict = errors.New("date conflict")

	// ErrInvalidTransition means the requested status change is not in the
	// transition table.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotFound means a referenced room, customer, or reservation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDeletionBlocked means the room or customer still has active reservations.
	ErrDeletionBlocked = errors.New("deletion blocked")
)
