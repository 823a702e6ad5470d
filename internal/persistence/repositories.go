package persistence

import (
	"context"
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// RoomRepository exposes CRUD operations for the room directory.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// BookingFilter narrows booking queries.
type BookingFilter struct {
	RoomID        string
	ParticipantID string
	From          *time.Time
	Until         *time.Time
}

// BookingRepository stores reservation records and their participants.
//
// CreateBooking re-runs the room/window conflict check and performs the insert
// inside one transaction: when any booking in a blocking status overlaps the
// candidate's window on the same room, it returns ErrConflict and writes
// nothing.
type BookingRepository interface {
	CreateBooking(ctx context.Context, record Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string, from, until time.Time) ([]Booking, error)
	// UpdateBookingStatus transitions a booking from an expected current
	// status, optionally recording a newly issued access code. It returns
	// ErrConflict when the stored status no longer matches from.
	UpdateBookingStatus(ctx context.Context, id string, from, to booking.Status, secretCode *string, updatedAt time.Time) error
}

// BlockRepository stores class and maintenance windows per room.
type BlockRepository interface {
	CreateBlock(ctx context.Context, block Block) error
	ListBlocksForRoom(ctx context.Context, roomID string, from, until time.Time) ([]Block, error)
	DeleteBlock(ctx context.Context, id string) error
}
