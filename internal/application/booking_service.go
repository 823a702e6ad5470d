package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// BookingQuery narrows a booking listing at the store.
type BookingQuery struct {
	RoomID        string
	ParticipantID string
	From          *time.Time
	Until         *time.Time
}

// BookingStore persists reservations. CreateBooking must perform its own
// conflict check against blocking bookings atomically with the insert and
// return persistence.ErrConflict when the window is already held.
type BookingStore interface {
	CreateBooking(ctx context.Context, record Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, query BookingQuery) ([]Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, from, to booking.Status, secretCode string, updatedAt time.Time) (Booking, error)
}

// WindowChecker classifies a requested window against current bookings and
// blocked periods.
type WindowChecker interface {
	WindowStatus(ctx context.Context, room Room, start, end time.Time) (booking.SlotStatus, error)
}

// BookingService orchestrates submission validation and the status lifecycle
// for reservations.
type BookingService struct {
	rooms         RoomCatalog
	store         BookingStore
	availability  WindowChecker
	locks         *roomLocks
	idGenerator   func() string
	codeGenerator func() string
	now           func() time.Time
	overdueGrace  time.Duration
	logger        *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(rooms RoomCatalog, store BookingStore, availability WindowChecker, idGenerator, codeGenerator func() string, now func() time.Time, overdueGrace time.Duration) *BookingService {
	return NewBookingServiceWithLogger(rooms, store, availability, idGenerator, codeGenerator, now, overdueGrace, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified
// logger.
func NewBookingServiceWithLogger(rooms RoomCatalog, store BookingStore, availability WindowChecker, idGenerator, codeGenerator func() string, now func() time.Time, overdueGrace time.Duration, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if codeGenerator == nil {
		codeGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if overdueGrace < 0 {
		overdueGrace = 0
	}
	return &BookingService{
		rooms:         rooms,
		store:         store,
		availability:  availability,
		locks:         newRoomLocks(),
		idGenerator:   idGenerator,
		codeGenerator: codeGenerator,
		now:           now,
		overdueGrace:  overdueGrace,
		logger:        defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// SubmitBooking validates a reservation request and persists it as pending.
// Rejections are checked in a fixed order: window validity, participants,
// room availability, then conflicts with existing holds. Only a conflict is
// retryable.
func (s *BookingService) SubmitBooking(ctx context.Context, params SubmitBookingParams) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	input := params.Input
	logger := s.loggerWith(ctx, "SubmitBooking",
		"principal_id", params.Principal.UserID,
		"room_id", input.RoomID,
	)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "booking submission rejected", "error_kind", ErrorKind(err), "error", err)
		}
	}()

	room, err := s.rooms.GetRoom(ctx, input.RoomID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if err = s.validateWindow(room, input.Start, input.End); err != nil {
		return
	}

	participants := normalizeParticipants(input.ParticipantIDs)
	if len(participants) == 0 {
		err = ErrEmptyParticipants
		return
	}

	if room.Status != RoomStatusAvailable {
		err = ErrRoomUnavailable
		return
	}

	// Serialize per room so two racing submissions for the same window
	// cannot both pass the availability check. The store repeats the
	// conflict check inside its transaction.
	unlock := s.locks.Lock(room.ID)
	defer unlock()

	status, err := s.availability.WindowStatus(ctx, room, input.Start, input.End)
	if err != nil {
		return Booking{}, err
	}
	switch status {
	case booking.SlotMaintenance, booking.SlotClass:
		err = ErrRoomUnavailable
		return
	case booking.SlotBooked:
		err = ErrConflict
		return
	}

	now := s.now()
	record := Booking{
		ID:             s.idGenerator(),
		RoomID:         room.ID,
		Start:          input.Start,
		End:            input.End,
		Purpose:        strings.TrimSpace(input.Purpose),
		CreatorID:      params.Principal.UserID,
		ParticipantIDs: participants,
		Status:         booking.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	persisted, err := s.store.CreateBooking(ctx, record)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	logger.InfoContext(ctx, "booking submitted", "booking_id", persisted.ID)
	return s.redactSecret(persisted, params.Principal), nil
}

// TransitionStatus applies a lifecycle action to a booking on behalf of the
// acting principal.
func (s *BookingService) TransitionStatus(ctx context.Context, params TransitionParams) (result Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "TransitionStatus",
		"principal_id", params.Principal.UserID,
		"booking_id", params.BookingID,
		"action", string(params.Action),
	)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "transition rejected", "error_kind", ErrorKind(err), "error", err)
		}
	}()

	record, err := s.store.GetBooking(ctx, params.BookingID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	principal := params.Principal
	isCreator := principal.UserID != "" && principal.UserID == record.CreatorID
	isParticipant := isCreator || slices.Contains(record.ParticipantIDs, principal.UserID)

	next, err := booking.Transition(booking.TransitionRequest{
		From:          record.Status,
		Action:        params.Action,
		Role:          principal.Role,
		IsCreator:     isCreator,
		IsParticipant: isParticipant,
		Now:           s.now(),
		Start:         record.Start,
		End:           record.End,
		Grace:         s.overdueGrace,
	})
	if err != nil {
		var tErr *booking.TransitionError
		switch {
		case errors.As(err, &tErr):
			err = fmt.Errorf("%w: %s", ErrInvalidTransition, tErr)
		case errors.Is(err, booking.ErrActorNotAllowed):
			err = ErrUnauthorized
		}
		return
	}

	// The access code exists from the moment a booking is approved; it is
	// handed to participants and checked by the guard desk at key pickup.
	secretCode := ""
	if next == booking.StatusApproved && record.SecretCode == "" {
		secretCode = s.codeGenerator()
	}

	updated, err := s.store.UpdateBookingStatus(ctx, record.ID, record.Status, next, secretCode, s.now())
	if err != nil {
		err = mapRepoError(err)
		return
	}

	logger.InfoContext(ctx, "booking transitioned", "from", string(record.Status), "to", string(next))
	return s.redactSecret(updated, principal), nil
}

// GetBooking returns a single booking visible to the principal.
func (s *BookingService) GetBooking(ctx context.Context, principal Principal, id string) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("BookingService is nil")
	}

	record, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return Booking{}, mapRepoError(err)
	}

	if !principal.IsStaffLike() && !isMember(record, principal.UserID) {
		return Booking{}, ErrUnauthorized
	}

	return s.redactSecret(record, principal), nil
}

// ListBookings returns the bookings matching the filter. Principals without a
// staff role only see bookings they created or participate in.
func (s *BookingService) ListBookings(ctx context.Context, params ListBookingsParams) ([]Booking, error) {
	if s == nil {
		return nil, fmt.Errorf("BookingService is nil")
	}

	query := BookingQuery{
		RoomID:        params.RoomID,
		ParticipantID: params.ParticipantID,
		From:          params.From,
		Until:         params.Until,
	}
	if !params.Principal.IsStaffLike() {
		query.ParticipantID = params.Principal.UserID
	}

	records, err := s.store.ListBookings(ctx, query)
	if err != nil {
		return nil, mapRepoError(err)
	}

	results := make([]Booking, 0, len(records))
	for _, record := range records {
		results = append(results, s.redactSecret(record, params.Principal))
	}
	return results, nil
}

// validateWindow rejects inverted windows, windows outside the room's
// operating hours, and windows that start in the past.
func (s *BookingService) validateWindow(room Room, start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return ErrInvalidWindow
	}

	open, close := room.OpenHour, room.CloseHour
	if open >= close {
		open, close = 0, 24
	}
	dayOpen := time.Date(start.Year(), start.Month(), start.Day(), open, 0, 0, 0, start.Location())
	dayClose := time.Date(start.Year(), start.Month(), start.Day(), close, 0, 0, 0, start.Location())
	if start.Before(dayOpen) || end.After(dayClose) {
		return ErrInvalidWindow
	}

	if start.Before(s.now()) {
		return ErrInvalidWindow
	}
	return nil
}

// redactSecret clears the access code unless the principal is entitled to it.
// The code only exists once a booking reaches an approved state and is shown
// to the booking's members, guards, and administrators.
func (s *BookingService) redactSecret(record Booking, principal Principal) Booking {
	if record.SecretCode == "" {
		return record
	}
	if principal.IsStaffLike() || isMember(record, principal.UserID) {
		return record
	}
	record.SecretCode = ""
	return record
}

func isMember(record Booking, userID string) bool {
	if userID == "" {
		return false
	}
	if record.CreatorID == userID {
		return true
	}
	return slices.Contains(record.ParticipantIDs, userID)
}

// normalizeParticipants trims blanks and removes duplicates while preserving
// the submitted order.
func normalizeParticipants(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
