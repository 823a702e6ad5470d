package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing key.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConflict is returned when a write loses against a competing booking:
	// either an overlapping blocking booking exists at insert time, or a
	// status update's expected current status no longer holds.
	ErrConflict = errors.New("persistence: booking conflict")
	// ErrConstraintViolation is returned for check constraint failures.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
)
