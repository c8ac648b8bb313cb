package directory

import "errors"

// Sentinel errors returned by directory operations. Callers should match
// them with [errors.Is].
var (
	// ErrDuplicateIndex is returned when a new id or unique tag collides with
	// the value already held by another entry.
	ErrDuplicateIndex = errors.New("duplicate directory index")

	// ErrEntryNotFound is returned when a handle, id or tag does not resolve
	// to an entry.
	ErrEntryNotFound = errors.New("directory entry not found")

	// ErrInvalidPredecessor is returned when a predecessor is not a live
	// sibling of the entry being positioned.
	ErrInvalidPredecessor = errors.New("invalid predecessor")

	// ErrSaveChanges wraps backing store failures during a flush.
	ErrSaveChanges = errors.New("failed to save directory changes")

	// ErrLoad wraps backing store failures while opening the directory.
	ErrLoad = errors.New("failed to load directory")

	// ErrInvariantViolation is returned by CheckInvariants.
	ErrInvariantViolation = errors.New("directory invariant violated")
)
