package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission
	// for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")

	// ErrInvalidWindow rejects a submission whose window is inverted, outside
	// the room's operating hours, or already in the past.
	ErrInvalidWindow = errors.New("application: invalid booking window")
	// ErrEmptyParticipants rejects a submission with no participants.
	ErrEmptyParticipants = errors.New("application: no participants")
	// ErrRoomUnavailable rejects a submission against a room that is closed,
	// under maintenance, or blocked for the requested window.
	ErrRoomUnavailable = errors.New("application: room unavailable")
	// ErrConflict rejects a submission that overlaps a booking already
	// holding the room. Callers may retry after re-fetching availability;
	// every other rejection is a business-rule violation and final.
	ErrConflict = errors.New("application: booking conflict")
	// ErrInvalidTransition rejects an undefined booking status transition.
	ErrInvalidTransition = errors.New("application: invalid status transition")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
