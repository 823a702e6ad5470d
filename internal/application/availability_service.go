package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// RoomCatalog exposes room lookup operations.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (Room, error)
}

// RoomBookingFinder lists the bookings for a room overlapping a window.
type RoomBookingFinder interface {
	ListBookingsForRoom(ctx context.Context, roomID string, from, until time.Time) ([]Booking, error)
}

// RoomBlockFinder lists the class and maintenance windows for a room
// overlapping a window.
type RoomBlockFinder interface {
	ListBlocksForRoom(ctx context.Context, roomID string, from, until time.Time) ([]Block, error)
}

// AvailabilityConfig bounds slot generation for rooms without explicit
// operating hours.
type AvailabilityConfig struct {
	SlotMinutes      int
	DefaultOpenHour  int
	DefaultCloseHour int
}

// AvailabilityService computes the slot view for a room and date. Slots are
// derived fresh on every call and never cached.
type AvailabilityService struct {
	rooms    RoomCatalog
	bookings RoomBookingFinder
	blocks   RoomBlockFinder
	cfg      AvailabilityConfig
	logger   *slog.Logger
}

// NewAvailabilityService wires dependencies for availability queries.
func NewAvailabilityService(rooms RoomCatalog, bookings RoomBookingFinder, blocks RoomBlockFinder, cfg AvailabilityConfig) *AvailabilityService {
	return NewAvailabilityServiceWithLogger(rooms, bookings, blocks, cfg, nil)
}

// NewAvailabilityServiceWithLogger constructs an availability service with a
// specified logger.
func NewAvailabilityServiceWithLogger(rooms RoomCatalog, bookings RoomBookingFinder, blocks RoomBlockFinder, cfg AvailabilityConfig, logger *slog.Logger) *AvailabilityService {
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = 30
	}
	if cfg.DefaultCloseHour <= cfg.DefaultOpenHour {
		cfg.DefaultOpenHour = 8
		cfg.DefaultCloseHour = 22
	}
	return &AvailabilityService{
		rooms:    rooms,
		bookings: bookings,
		blocks:   blocks,
		cfg:      cfg,
		logger:   defaultLogger(logger),
	}
}

// GetAvailability returns the annotated slots for a room on the given date.
func (s *AvailabilityService) GetAvailability(ctx context.Context, roomID string, date time.Time) ([]booking.TimeSlot, error) {
	if s == nil {
		return nil, fmt.Errorf("AvailabilityService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "AvailabilityService", "GetAvailability", "room_id", roomID)

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	open, close := s.operatingHours(room)
	slots, err := booking.GenerateSlots(room.ID, date, s.cfg.SlotMinutes, open, close)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	dayStart := slots[0].Start
	dayEnd := slots[len(slots)-1].End

	booked, blocked, err := s.loadWindows(ctx, room, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	annotated := booking.Annotate(slots, booked, blocked)
	logger.DebugContext(ctx, "availability computed", "slots", len(annotated))
	return annotated, nil
}

// WindowStatus classifies a single requested window the way GetAvailability
// classifies generated slots. The booking validator uses it to recompute
// availability for a submission before committing.
func (s *AvailabilityService) WindowStatus(ctx context.Context, room Room, start, end time.Time) (booking.SlotStatus, error) {
	if s == nil {
		return "", fmt.Errorf("AvailabilityService is nil")
	}
	if !start.Before(end) {
		return "", ErrInvalidWindow
	}

	booked, blocked, err := s.loadWindows(ctx, room, start, end)
	if err != nil {
		return "", err
	}

	window := []booking.TimeSlot{{RoomID: room.ID, Start: start, End: end, Status: booking.SlotAvailable}}
	annotated := booking.Annotate(window, booked, blocked)
	return annotated[0].Status, nil
}

// operatingHours resolves a room's bookable hours, falling back to the
// configured defaults for rooms created before hours were tracked.
func (s *AvailabilityService) operatingHours(room Room) (int, int) {
	if room.OpenHour < room.CloseHour {
		return room.OpenHour, room.CloseHour
	}
	return s.cfg.DefaultOpenHour, s.cfg.DefaultCloseHour
}

func (s *AvailabilityService) loadWindows(ctx context.Context, room Room, from, until time.Time) ([]booking.BookedWindow, []booking.BlockedWindow, error) {
	var booked []booking.BookedWindow
	if s.bookings != nil {
		records, err := s.bookings.ListBookingsForRoom(ctx, room.ID, from, until)
		if err != nil && !errors.Is(err, persistence.ErrNotFound) && !errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
		booked = make([]booking.BookedWindow, 0, len(records))
		for _, record := range records {
			booked = append(booked, booking.BookedWindow{
				BookingID: record.ID,
				Start:     record.Start,
				End:       record.End,
				Status:    record.Status,
			})
		}
	}

	var blocked []booking.BlockedWindow
	if s.blocks != nil {
		records, err := s.blocks.ListBlocksForRoom(ctx, room.ID, from, until)
		if err != nil && !errors.Is(err, persistence.ErrNotFound) && !errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
		blocked = make([]booking.BlockedWindow, 0, len(records))
		for _, record := range records {
			blocked = append(blocked, booking.BlockedWindow{
				Kind:  record.Kind,
				Start: record.Start,
				End:   record.End,
			})
		}
	}

	// A room that is administratively closed renders its whole window as
	// maintenance; the most restrictive slot status wins.
	if room.Status != RoomStatusAvailable {
		blocked = append(blocked, booking.BlockedWindow{
			Kind:  booking.BlockMaintenance,
			Start: from,
			End:   until,
		})
	}

	return booked, blocked, nil
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, persistence.ErrConflict):
		return ErrConflict
	case errors.Is(err, persistence.ErrDuplicate):
		return persistence.ErrDuplicate
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	}
	return err
}
