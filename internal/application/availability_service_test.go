package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

func newAvailabilityServiceForTest(rooms *roomCatalogStub, store *bookingStoreStub, blocks *blockFinderStub) *AvailabilityService {
	if store == nil {
		store = newBookingStoreStub()
	}
	if blocks == nil {
		blocks = &blockFinderStub{}
	}
	return NewAvailabilityService(rooms, store, blocks, AvailabilityConfig{
		SlotMinutes:      30,
		DefaultOpenHour:  8,
		DefaultCloseHour: 22,
	})
}

func slotAt(t *testing.T, slots []booking.TimeSlot, start time.Time) booking.TimeSlot {
	t.Helper()
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return slot
		}
	}
	t.Fatalf("no slot starting at %v", start)
	return booking.TimeSlot{}
}

func TestGetAvailability(t *testing.T) {
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	room := seminarRoom()
	room.OpenHour = 9
	room.CloseHour = 18

	t.Run("generates the full slot grid for an empty day", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		service := newAvailabilityServiceForTest(rooms, nil, nil)

		slots, err := service.GetAvailability(context.Background(), "room-1", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 18 {
			t.Fatalf("expected 18 slots for 09:00-18:00 at 30 minutes, got %d", len(slots))
		}
		for _, slot := range slots {
			if slot.Status != booking.SlotAvailable {
				t.Fatalf("expected every slot available, got %s at %v", slot.Status, slot.Start)
			}
		}
	})

	t.Run("marks slots covered by an approved booking", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		store := newBookingStoreStub()
		store.records["existing"] = Booking{
			ID:     "existing",
			RoomID: "room-1",
			Start:  date.Add(10 * time.Hour),
			End:    date.Add(11 * time.Hour),
			Status: booking.StatusApproved,
		}
		service := newAvailabilityServiceForTest(rooms, store, nil)

		slots, err := service.GetAvailability(context.Background(), "room-1", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := slotAt(t, slots, date.Add(10*time.Hour)).Status; got != booking.SlotBooked {
			t.Fatalf("expected 10:00 slot booked, got %s", got)
		}
		if got := slotAt(t, slots, date.Add(10*time.Hour+30*time.Minute)).Status; got != booking.SlotBooked {
			t.Fatalf("expected 10:30 slot booked, got %s", got)
		}
		// The booking ends at 11:00 exactly, so the 11:00 slot stays free.
		if got := slotAt(t, slots, date.Add(11*time.Hour)).Status; got != booking.SlotAvailable {
			t.Fatalf("expected 11:00 slot available, got %s", got)
		}
		if got := slotAt(t, slots, date.Add(9*time.Hour+30*time.Minute)).Status; got != booking.SlotAvailable {
			t.Fatalf("expected 09:30 slot available, got %s", got)
		}
	})

	t.Run("ignores pending and cancelled bookings", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		store := newBookingStoreStub()
		store.records["pending"] = Booking{
			ID:     "pending",
			RoomID: "room-1",
			Start:  date.Add(10 * time.Hour),
			End:    date.Add(11 * time.Hour),
			Status: booking.StatusPending,
		}
		store.records["cancelled"] = Booking{
			ID:     "cancelled",
			RoomID: "room-1",
			Start:  date.Add(12 * time.Hour),
			End:    date.Add(13 * time.Hour),
			Status: booking.StatusCancelled,
		}
		service := newAvailabilityServiceForTest(rooms, store, nil)

		slots, err := service.GetAvailability(context.Background(), "room-1", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, slot := range slots {
			if slot.Status != booking.SlotAvailable {
				t.Fatalf("non-blocking bookings must not mark slots, got %s at %v", slot.Status, slot.Start)
			}
		}
	})

	t.Run("marks class and maintenance windows", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		blocks := &blockFinderStub{blocks: []Block{
			{
				ID:     "class",
				RoomID: "room-1",
				Kind:   booking.BlockClass,
				Start:  date.Add(13 * time.Hour),
				End:    date.Add(14 * time.Hour),
			},
			{
				ID:     "repair",
				RoomID: "room-1",
				Kind:   booking.BlockMaintenance,
				Start:  date.Add(15 * time.Hour),
				End:    date.Add(16 * time.Hour),
			},
		}}
		service := newAvailabilityServiceForTest(rooms, nil, blocks)

		slots, err := service.GetAvailability(context.Background(), "room-1", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := slotAt(t, slots, date.Add(13*time.Hour)).Status; got != booking.SlotClass {
			t.Fatalf("expected class slot, got %s", got)
		}
		if got := slotAt(t, slots, date.Add(15*time.Hour)).Status; got != booking.SlotMaintenance {
			t.Fatalf("expected maintenance slot, got %s", got)
		}
	})

	t.Run("maintenance outranks an overlapping booking", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		store := newBookingStoreStub()
		store.records["existing"] = Booking{
			ID:     "existing",
			RoomID: "room-1",
			Start:  date.Add(15 * time.Hour),
			End:    date.Add(16 * time.Hour),
			Status: booking.StatusApproved,
		}
		blocks := &blockFinderStub{blocks: []Block{{
			ID:     "repair",
			RoomID: "room-1",
			Kind:   booking.BlockMaintenance,
			Start:  date.Add(15 * time.Hour),
			End:    date.Add(16 * time.Hour),
		}}}
		service := newAvailabilityServiceForTest(rooms, store, blocks)

		slots, err := service.GetAvailability(context.Background(), "room-1", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := slotAt(t, slots, date.Add(15*time.Hour)).Status; got != booking.SlotMaintenance {
			t.Fatalf("expected maintenance to win, got %s", got)
		}
	})

	t.Run("closed room renders every slot as maintenance", func(t *testing.T) {
		closed := room
		closed.Status = RoomStatusUnavailable
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": closed}}
		service := newAvailabilityServiceForTest(rooms, nil, nil)

		slots, err := service.GetAvailability(context.Background(), "room-1", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, slot := range slots {
			if slot.Status != booking.SlotMaintenance {
				t.Fatalf("expected maintenance slots for a closed room, got %s at %v", slot.Status, slot.Start)
			}
		}
	})

	t.Run("unknown room yields not found", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{}}
		service := newAvailabilityServiceForTest(rooms, nil, nil)

		_, err := service.GetAvailability(context.Background(), "missing", date)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("falls back to default hours when the room has none", func(t *testing.T) {
		bare := seminarRoom()
		bare.OpenHour = 0
		bare.CloseHour = 0
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": bare}}
		service := newAvailabilityServiceForTest(rooms, nil, nil)

		slots, err := service.GetAvailability(context.Background(), "room-1", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slots) != 28 {
			t.Fatalf("expected 28 slots for 08:00-22:00 at 30 minutes, got %d", len(slots))
		}
	})
}

func TestWindowStatus(t *testing.T) {
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	room := seminarRoom()

	t.Run("free window is available", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		service := newAvailabilityServiceForTest(rooms, nil, nil)

		status, err := service.WindowStatus(context.Background(), room, date.Add(10*time.Hour), date.Add(11*time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != booking.SlotAvailable {
			t.Fatalf("expected available, got %s", status)
		}
	})

	t.Run("held window is booked", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		store := newBookingStoreStub()
		store.records["existing"] = Booking{
			ID:     "existing",
			RoomID: "room-1",
			Start:  date.Add(10 * time.Hour),
			End:    date.Add(11 * time.Hour),
			Status: booking.StatusKeyIssued,
		}
		service := newAvailabilityServiceForTest(rooms, store, nil)

		status, err := service.WindowStatus(context.Background(), room, date.Add(10*time.Hour+30*time.Minute), date.Add(11*time.Hour+30*time.Minute))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != booking.SlotBooked {
			t.Fatalf("expected booked, got %s", status)
		}
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		rooms := &roomCatalogStub{rooms: map[string]Room{"room-1": room}}
		service := newAvailabilityServiceForTest(rooms, nil, nil)

		_, err := service.WindowStatus(context.Background(), room, date.Add(11*time.Hour), date.Add(10*time.Hour))
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
	})
}
