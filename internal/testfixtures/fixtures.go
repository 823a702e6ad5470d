package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

var (
	roomCounter    uint64
	bookingCounter uint64
	blockCounter   uint64
)

var referenceTime = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures. It
// falls at 09:00 UTC so booking windows built from it sit inside the default
// operating hours.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic room record that can be materialised
// for application or persistence tests.
type RoomFixture struct {
	ID        string
	Name      string
	Building  string
	Capacity  int
	Category  application.RoomCategory
	Status    application.RoomStatus
	OpenHour  int
	CloseHour int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := RoomFixture{
		ID:        id,
		Name:      fmt.Sprintf("Room %03d", idx),
		Building:  "Main Hall",
		Capacity:  20,
		Category:  application.RoomCategorySeminar,
		Status:    application.RoomStatusAvailable,
		OpenHour:  8,
		CloseHour: 22,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomStatus sets the administrative status on the fixture.
func WithRoomStatus(status application.RoomStatus) RoomOption {
	return func(f *RoomFixture) {
		f.Status = status
	}
}

// WithRoomHours sets the operating hours on the fixture.
func WithRoomHours(open, close int) RoomOption {
	return func(f *RoomFixture) {
		f.OpenHour = open
		f.CloseHour = close
	}
}

// WithRoomCapacity sets the capacity on the fixture.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// Application returns the fixture as an application.Room value.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:        f.ID,
		Name:      f.Name,
		Building:  f.Building,
		Capacity:  f.Capacity,
		Category:  f.Category,
		Status:    f.Status,
		OpenHour:  f.OpenHour,
		CloseHour: f.CloseHour,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Building:  f.Building,
		Capacity:  f.Capacity,
		Category:  string(f.Category),
		Status:    string(f.Status),
		OpenHour:  f.OpenHour,
		CloseHour: f.CloseHour,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingFixture represents a deterministic reservation record.
type BookingFixture struct {
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

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a deterministic booking fixture with optional
// overrides. The default window is one hour starting an hour after the
// reference time.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	id := fmt.Sprintf("booking-%03d", idx)
	start := referenceTime.Add(time.Hour)
	creator := fmt.Sprintf("user-%03d", idx)
	fixture := BookingFixture{
		ID:             id,
		RoomID:         "room-001",
		Start:          start,
		End:            start.Add(time.Hour),
		Purpose:        "study group",
		CreatorID:      creator,
		ParticipantIDs: []string{creator},
		Status:         booking.StatusPending,
		CreatedAt:      referenceTime,
		UpdatedAt:      referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.ID = id
	}
}

// WithBookingRoom sets the room the booking belongs to.
func WithBookingRoom(roomID string) BookingOption {
	return func(f *BookingFixture) {
		f.RoomID = roomID
	}
}

// WithBookingWindow sets the booking window.
func WithBookingWindow(start, end time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.Start = start
		f.End = end
	}
}

// WithBookingStatus sets the lifecycle status.
func WithBookingStatus(status booking.Status) BookingOption {
	return func(f *BookingFixture) {
		f.Status = status
	}
}

// WithBookingCreator sets the creator and makes them a participant.
func WithBookingCreator(userID string) BookingOption {
	return func(f *BookingFixture) {
		f.CreatorID = userID
		f.ParticipantIDs = []string{userID}
	}
}

// WithBookingParticipants sets the full participant list.
func WithBookingParticipants(ids ...string) BookingOption {
	return func(f *BookingFixture) {
		f.ParticipantIDs = ids
	}
}

// WithBookingSecretCode sets the access code.
func WithBookingSecretCode(code string) BookingOption {
	return func(f *BookingFixture) {
		f.SecretCode = code
	}
}

// Application returns the fixture as an application.Booking value.
func (f BookingFixture) Application() application.Booking {
	participants := make([]string, len(f.ParticipantIDs))
	copy(participants, f.ParticipantIDs)
	return application.Booking{
		ID:             f.ID,
		RoomID:         f.RoomID,
		Start:          f.Start,
		End:            f.End,
		Purpose:        f.Purpose,
		CreatorID:      f.CreatorID,
		ParticipantIDs: participants,
		Status:         f.Status,
		SecretCode:     f.SecretCode,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Booking value.
func (f BookingFixture) Persistence() persistence.Booking {
	participants := make([]string, len(f.ParticipantIDs))
	copy(participants, f.ParticipantIDs)
	var code *string
	if f.SecretCode != "" {
		value := f.SecretCode
		code = &value
	}
	return persistence.Booking{
		ID:           f.ID,
		RoomID:       f.RoomID,
		Start:        f.Start,
		End:          f.End,
		Purpose:      f.Purpose,
		CreatorID:    f.CreatorID,
		Participants: participants,
		Status:       f.Status,
		SecretCode:   code,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ---------------------------- Block fixtures -----------------------------

// BlockFixture represents a deterministic class or maintenance window.
type BlockFixture struct {
	ID        string
	RoomID    string
	Kind      booking.BlockKind
	Start     time.Time
	End       time.Time
	Note      string
	CreatedAt time.Time
}

// BlockOption configures the generated block fixture.
type BlockOption func(*BlockFixture)

// NewBlockFixture returns a deterministic block fixture with optional
// overrides.
func NewBlockFixture(opts ...BlockOption) BlockFixture {
	idx := atomic.AddUint64(&blockCounter, 1)
	start := referenceTime.Add(3 * time.Hour)
	fixture := BlockFixture{
		ID:        fmt.Sprintf("block-%03d", idx),
		RoomID:    "room-001",
		Kind:      booking.BlockClass,
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBlockRoom sets the room the block belongs to.
func WithBlockRoom(roomID string) BlockOption {
	return func(f *BlockFixture) {
		f.RoomID = roomID
	}
}

// WithBlockKind sets the block kind.
func WithBlockKind(kind booking.BlockKind) BlockOption {
	return func(f *BlockFixture) {
		f.Kind = kind
	}
}

// WithBlockWindow sets the blocked window.
func WithBlockWindow(start, end time.Time) BlockOption {
	return func(f *BlockFixture) {
		f.Start = start
		f.End = end
	}
}

// Application returns the fixture as an application.Block value.
func (f BlockFixture) Application() application.Block {
	return application.Block{
		ID:        f.ID,
		RoomID:    f.RoomID,
		Kind:      f.Kind,
		Start:     f.Start,
		End:       f.End,
		Note:      f.Note,
		CreatedAt: f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Block value.
func (f BlockFixture) Persistence() persistence.Block {
	var note *string
	if f.Note != "" {
		value := f.Note
		note = &value
	}
	return persistence.Block{
		ID:        f.ID,
		RoomID:    f.RoomID,
		Kind:      f.Kind,
		Start:     f.Start,
		End:       f.End,
		Note:      note,
		CreatedAt: f.CreatedAt,
	}
}

// --------------------------- Principal helpers ---------------------------

// StudentPrincipal returns a principal holding the student role.
func StudentPrincipal(userID string) application.Principal {
	return application.Principal{UserID: userID, Role: booking.RoleStudent}
}

// StaffPrincipal returns a principal holding the staff role.
func StaffPrincipal(userID string) application.Principal {
	return application.Principal{UserID: userID, Role: booking.RoleStaff}
}

// GuardPrincipal returns a principal holding the guard role.
func GuardPrincipal(userID string) application.Principal {
	return application.Principal{UserID: userID, Role: booking.RoleGuard}
}

// AdminPrincipal returns a principal holding the administrator role.
func AdminPrincipal(userID string) application.Principal {
	return application.Principal{UserID: userID, Role: booking.RoleAdmin}
}

// SystemPrincipal returns the principal used by scheduled jobs.
func SystemPrincipal() application.Principal {
	return application.Principal{UserID: "system", Role: booking.RoleSystem}
}
