package application

import (
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// Principal represents the pre-authenticated identity invoking a service
// method. Identity and role arrive from the gateway; this core never
// authenticates.
type Principal struct {
	UserID string
	Role   booking.Role
}

// IsAdmin reports whether the principal holds the administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role == booking.RoleAdmin
}

// IsStaffLike reports whether the principal may see bookings beyond their own.
func (p Principal) IsStaffLike() bool {
	return p.Role == booking.RoleAdmin || p.Role == booking.RoleGuard || p.Role == booking.RoleSystem
}

// RoomCategory enumerates the room catalog categories.
type RoomCategory string

const (
	RoomCategoryLecture RoomCategory = "lecture"
	RoomCategorySeminar RoomCategory = "seminar"
	RoomCategoryOther   RoomCategory = "other"
)

// RoomStatus enumerates administrative room states.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusUnavailable RoomStatus = "unavailable"
)

// Room represents a bookable room exposed by the application services.
type Room struct {
	ID        string
	Name      string
	Building  string
	Capacity  int
	Category  RoomCategory
	Status    RoomStatus
	OpenHour  int
	CloseHour int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name      string
	Building  string
	Capacity  int
	Category  RoomCategory
	Status    RoomStatus
	OpenHour  int
	CloseHour int
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// Booking represents a reservation exposed by the application services. The
// access code is cleared before the record reaches a caller who is not
// entitled to it.
type Booking struct {
	ID             string
	RoomID         string
	Start          time.Time
	End            time.Time
	Purpose        string
	CreatorID      string
	ParticipantIDs []string
	Status         booking.Status
	SecretCode     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BookingInput captures a booking submission. A bulk booking lists every
// covered participant; an individual booking lists exactly one.
type BookingInput struct {
	RoomID         string
	Start          time.Time
	End            time.Time
	Purpose        string
	ParticipantIDs []string
}

// SubmitBookingParams wraps the data required to submit a booking.
type SubmitBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// TransitionParams wraps a requested booking status transition.
type TransitionParams struct {
	Principal Principal
	BookingID string
	Action    booking.Action
}

// ListBookingsParams narrows booking listings.
type ListBookingsParams struct {
	Principal     Principal
	RoomID        string
	ParticipantID string
	From          *time.Time
	Until         *time.Time
}

// Block represents a class or maintenance window exposed by the services.
type Block struct {
	ID        string
	RoomID    string
	Kind      booking.BlockKind
	Start     time.Time
	End       time.Time
	Note      string
	CreatedAt time.Time
}

// BlockInput captures caller provided block fields.
type BlockInput struct {
	Kind  booking.BlockKind
	Start time.Time
	End   time.Time
	Note  string
}

// CreateBlockParams wraps the data required to register a blocked window.
type CreateBlockParams struct {
	Principal Principal
	RoomID    string
	Input     BlockInput
}
