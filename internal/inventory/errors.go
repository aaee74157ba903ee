package inventory

import "errors"

var (
	// ErrNotFound indicates the identifier has no records at all.
	ErrNotFound = errors.New("identifier not found")
	// ErrNoActiveRecord indicates the identifier exists but every record
	// under it has been superseded.
	ErrNoActiveRecord = errors.New("no active record for identifier")
	// ErrConcurrentModification indicates a write found the record changed
	// or deactivated since it was last resolved.
	ErrConcurrentModification = errors.New("record changed concurrently")
	// ErrAllocationConflict indicates identifier allocation collided and
	// should be retried with a fresh allocation.
	ErrAllocationConflict = errors.New("identifier allocation conflict")
	// ErrDuplicateIdentifier indicates an intake attempted to reuse an
	// identifier that already has an active record.
	ErrDuplicateIdentifier = errors.New("identifier already active")
)
