// Package booking holds the pure reservation domain: slot generation,
// availability annotation, and the booking status state machine. Nothing in
// this package touches a clock, a store, or the network; callers inject every
// instant and record the package reasons about.
package booking

import "time"

// SlotStatus classifies a candidate time slot for display and validation.
type SlotStatus string

const (
	// SlotAvailable marks a slot with no booking or blocked window over it.
	SlotAvailable SlotStatus = "available"
	// SlotBooked marks a slot covered by a booking in a blocking status.
	SlotBooked SlotStatus = "booked"
	// SlotClass marks a slot covered by a scheduled class window.
	SlotClass SlotStatus = "class"
	// SlotMaintenance marks a slot covered by a maintenance window.
	SlotMaintenance SlotStatus = "maintenance"
)

// TimeSlot is a derived candidate booking window for a room. Slots are
// generated fresh per availability query and never persisted.
type TimeSlot struct {
	RoomID string
	Start  time.Time
	End    time.Time
	Status SlotStatus
}

// Status enumerates the lifecycle states of a booking record.
type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusConfirmed    Status = "confirmed"
	StatusKeyRequested Status = "key_requested"
	StatusKeyIssued    Status = "key_issued"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
	StatusOverdue      Status = "overdue"
)

// Blocks reports whether a booking in this status holds its room window
// against other bookings. Pending and rejected requests never block.
func (s Status) Blocks() bool {
	switch s {
	case StatusApproved, StatusConfirmed, StatusKeyIssued:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Valid reports whether s is a known booking status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusConfirmed,
		StatusKeyRequested, StatusKeyIssued, StatusCompleted, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}

// BlockKind distinguishes the two sources of externally blocked windows.
type BlockKind string

const (
	// BlockClass is a scheduled, non-cancelable class occupying the room.
	BlockClass BlockKind = "class"
	// BlockMaintenance is a maintenance window closing the room.
	BlockMaintenance BlockKind = "maintenance"
)

// BookedWindow is the projection of a persisted booking that the availability
// filter consumes: the covered interval and the status holding it.
type BookedWindow struct {
	BookingID string
	Start     time.Time
	End       time.Time
	Status    Status
}

// BlockedWindow is a class or maintenance interval supplied by the room
// directory; the filter treats it as unavailable regardless of bookings.
type BlockedWindow struct {
	Kind  BlockKind
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. Adjacent intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
