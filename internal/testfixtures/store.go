package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// MemoryStore is an in-memory implementation of the application layer's
// storage interfaces. CreateBooking performs the same atomic conflict check
// the SQLite repository runs inside its transaction, so concurrency tests
// against the store behave like the real thing.
type MemoryStore struct {
	mu       sync.Mutex
	rooms    map[string]application.Room
	bookings map[string]application.Booking
	blocks   map[string]application.Block
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:    make(map[string]application.Room),
		bookings: make(map[string]application.Booking),
		blocks:   make(map[string]application.Block),
	}
}

// SeedRoom inserts a room without validation.
func (s *MemoryStore) SeedRoom(room application.Room) {
	s.mu.Lock()
	s.rooms[room.ID] = room
	s.mu.Unlock()
}

// SeedBooking inserts a booking without running the conflict check.
func (s *MemoryStore) SeedBooking(record application.Booking) {
	s.mu.Lock()
	s.bookings[record.ID] = record
	s.mu.Unlock()
}

// SeedBlock inserts a block without validation.
func (s *MemoryStore) SeedBlock(block application.Block) {
	s.mu.Lock()
	s.blocks[block.ID] = block
	s.mu.Unlock()
}

// BookingCount reports the number of stored bookings.
func (s *MemoryStore) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// CreateRoom stores a new room.
func (s *MemoryStore) CreateRoom(_ context.Context, room application.Room) (application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return application.Room{}, persistence.ErrDuplicate
	}
	s.rooms[room.ID] = room
	return room, nil
}

// GetRoom returns a room by ID.
func (s *MemoryStore) GetRoom(_ context.Context, id string) (application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return application.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

// ListRooms returns all rooms ordered by ID.
func (s *MemoryStore) ListRooms(_ context.Context) ([]application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]application.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

// UpdateRoom replaces a stored room.
func (s *MemoryStore) UpdateRoom(_ context.Context, room application.Room) (application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return application.Room{}, persistence.ErrNotFound
	}
	s.rooms[room.ID] = room
	return room, nil
}

// DeleteRoom removes a room by ID.
func (s *MemoryStore) DeleteRoom(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.rooms, id)
	return nil
}

// CreateBooking checks the candidate's window against bookings in blocking
// statuses on the same room and inserts only when clear. The check and the
// insert happen under one lock.
func (s *MemoryStore) CreateBooking(_ context.Context, record application.Booking) (application.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[record.ID]; ok {
		return application.Booking{}, persistence.ErrDuplicate
	}
	for _, existing := range s.bookings {
		if existing.RoomID != record.RoomID || !existing.Status.Blocks() {
			continue
		}
		if booking.Overlaps(record.Start, record.End, existing.Start, existing.End) {
			return application.Booking{}, persistence.ErrConflict
		}
	}
	s.bookings[record.ID] = record
	return record, nil
}

// GetBooking returns a booking by ID.
func (s *MemoryStore) GetBooking(_ context.Context, id string) (application.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.bookings[id]
	if !ok {
		return application.Booking{}, persistence.ErrNotFound
	}
	return record, nil
}

// ListBookings returns the bookings matching the query ordered by start time.
func (s *MemoryStore) ListBookings(_ context.Context, query application.BookingQuery) ([]application.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]application.Booking, 0, len(s.bookings))
	for _, record := range s.bookings {
		if query.RoomID != "" && record.RoomID != query.RoomID {
			continue
		}
		if query.ParticipantID != "" && !bookingMember(record, query.ParticipantID) {
			continue
		}
		if query.From != nil && !record.End.After(*query.From) {
			continue
		}
		if query.Until != nil && !record.Start.Before(*query.Until) {
			continue
		}
		results = append(results, record)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Start.Equal(results[j].Start) {
			return results[i].ID < results[j].ID
		}
		return results[i].Start.Before(results[j].Start)
	})
	return results, nil
}

// ListBookingsForRoom returns the bookings for a room overlapping the window.
func (s *MemoryStore) ListBookingsForRoom(ctx context.Context, roomID string, from, until time.Time) ([]application.Booking, error) {
	return s.ListBookings(ctx, application.BookingQuery{RoomID: roomID, From: &from, Until: &until})
}

// UpdateBookingStatus transitions a booking from an expected current status.
// A non-empty secretCode replaces the stored code.
func (s *MemoryStore) UpdateBookingStatus(_ context.Context, id string, from, to booking.Status, secretCode string, updatedAt time.Time) (application.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.bookings[id]
	if !ok {
		return application.Booking{}, persistence.ErrNotFound
	}
	if record.Status != from {
		return application.Booking{}, persistence.ErrConflict
	}
	record.Status = to
	if secretCode != "" {
		record.SecretCode = secretCode
	}
	record.UpdatedAt = updatedAt
	s.bookings[id] = record
	return record, nil
}

// CreateBlock stores a new blocked window.
func (s *MemoryStore) CreateBlock(_ context.Context, block application.Block) (application.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[block.ID]; ok {
		return application.Block{}, persistence.ErrDuplicate
	}
	s.blocks[block.ID] = block
	return block, nil
}

// ListBlocksForRoom returns the blocks for a room overlapping the window.
func (s *MemoryStore) ListBlocksForRoom(_ context.Context, roomID string, from, until time.Time) ([]application.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]application.Block, 0)
	for _, block := range s.blocks {
		if block.RoomID != roomID {
			continue
		}
		if !booking.Overlaps(block.Start, block.End, from, until) {
			continue
		}
		results = append(results, block)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Start.Before(results[j].Start) })
	return results, nil
}

// DeleteBlock removes a block by ID.
func (s *MemoryStore) DeleteBlock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.blocks, id)
	return nil
}

func bookingMember(record application.Booking, userID string) bool {
	if record.CreatorID == userID {
		return true
	}
	for _, id := range record.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
