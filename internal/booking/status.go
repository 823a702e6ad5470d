package booking

import "time"

// Action names a status transition requested against a booking.
type Action string

const (
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionCancel      Action = "cancel"
	ActionRequestKey  Action = "request_key"
	ActionIssueKey    Action = "issue_key"
	ActionComplete    Action = "complete"
	ActionMarkOverdue Action = "mark_overdue"
)

// Valid reports whether a is a known transition action.
func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionCancel, ActionRequestKey,
		ActionIssueKey, ActionComplete, ActionMarkOverdue:
		return true
	}
	return false
}

// Role identifies the kind of actor requesting a transition.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleGuard   Role = "guard"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system"
)

// Valid reports whether r is a known actor role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleGuard, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// TransitionRequest carries everything the state machine needs to decide a
// transition: the current status, the requested action, and the actor and
// timing context the guards depend on.
type TransitionRequest struct {
	From          Status
	Action        Action
	Role          Role
	IsCreator     bool
	IsParticipant bool

	// Now is the injected current instant; Start and End are the booking's
	// window. Grace is the return allowance before a key-issued booking goes
	// overdue.
	Now   time.Time
	Start time.Time
	End   time.Time
	Grace time.Duration
}

// Transition computes the successor status for the request.
//
// Undefined transitions, attempts to leave a terminal state, and timing-guard
// violations fail with *TransitionError. A defined transition requested by the
// wrong actor fails with ErrActorNotAllowed. Transitions are monotonic: no
// result ever moves a booking backwards along its lifecycle.
func Transition(req TransitionRequest) (Status, error) {
	if req.From.Terminal() {
		return "", &TransitionError{From: req.From, Action: req.Action}
	}

	invalid := func() (Status, error) {
		return "", &TransitionError{From: req.From, Action: req.Action}
	}
	denied := func() (Status, error) {
		return "", ErrActorNotAllowed
	}

	switch req.Action {
	case ActionApprove:
		if req.From != StatusPending {
			return invalid()
		}
		if req.Role != RoleGuard && req.Role != RoleAdmin {
			return denied()
		}
		return StatusApproved, nil

	case ActionReject:
		if req.From != StatusPending {
			return invalid()
		}
		if req.Role != RoleGuard && req.Role != RoleAdmin {
			return denied()
		}
		return StatusRejected, nil

	case ActionCancel:
		// Admin override reaches any non-terminal state.
		if req.Role == RoleAdmin {
			return StatusCancelled, nil
		}
		if !req.IsCreator {
			return denied()
		}
		switch req.From {
		case StatusPending:
			return StatusCancelled, nil
		case StatusApproved, StatusConfirmed:
			if !req.Now.Before(req.Start) {
				return invalid()
			}
			return StatusCancelled, nil
		}
		return invalid()

	case ActionRequestKey:
		if req.From != StatusApproved && req.From != StatusConfirmed {
			return invalid()
		}
		if !req.IsParticipant {
			return denied()
		}
		return StatusKeyRequested, nil

	case ActionIssueKey:
		if req.From != StatusKeyRequested {
			return invalid()
		}
		if req.Role != RoleGuard {
			return denied()
		}
		return StatusKeyIssued, nil

	case ActionComplete:
		if req.From != StatusKeyIssued {
			return invalid()
		}
		if req.Role != RoleGuard {
			return denied()
		}
		if req.Now.Before(req.End) {
			return invalid()
		}
		return StatusCompleted, nil

	case ActionMarkOverdue:
		if req.From != StatusKeyIssued {
			return invalid()
		}
		if req.Role != RoleSystem {
			return denied()
		}
		if !req.Now.After(req.End.Add(req.Grace)) {
			return invalid()
		}
		return StatusOverdue, nil
	}

	return invalid()
}
