package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned by GenerateSlots for an empty or inverted
	// operating window, or a non-positive granularity.
	ErrInvalidRange = errors.New("booking: invalid slot range")
	// ErrActorNotAllowed is returned when the acting role may not perform the
	// requested status transition. The transition itself may be well defined.
	ErrActorNotAllowed = errors.New("booking: actor not allowed")
)

// TransitionError reports a status transition that the state machine does not
// define, including any attempt to leave a terminal state.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("booking: no transition %q from status %q", e.Action, e.From)
}
