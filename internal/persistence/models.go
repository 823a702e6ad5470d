package persistence

import (
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// Room represents a bookable room in the campus directory.
type Room struct {
	ID        string
	Name      string
	Building  string
	Capacity  int
	Category  string
	Status    string
	OpenHour  int
	CloseHour int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking represents a reservation record and its participant set. A bulk
// booking is a single record with several participants.
type Booking struct {
	ID           string
	RoomID       string
	Start        time.Time
	End          time.Time
	Purpose      string
	CreatorID    string
	Participants []string
	Status       booking.Status
	SecretCode   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Block represents an externally imposed unavailable window for a room: a
// scheduled class or a maintenance closure.
type Block struct {
	ID        string
	RoomID    string
	Kind      booking.BlockKind
	Start     time.Time
	End       time.Time
	Note      *string
	CreatedAt time.Time
}
