package main

import (
	"context"
	"time"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// roomRepositoryAdapter bridges the persistence room repository to the
// application's room interfaces.
type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

// bookingStoreAdapter bridges the persistence booking repository to the
// application's booking store and availability finder interfaces.
type bookingStoreAdapter struct {
	repo persistence.BookingRepository
}

func newBookingStoreAdapter(repo persistence.BookingRepository) *bookingStoreAdapter {
	return &bookingStoreAdapter{repo: repo}
}

func (a *bookingStoreAdapter) CreateBooking(ctx context.Context, record application.Booking) (application.Booking, error) {
	if err := a.repo.CreateBooking(ctx, toPersistenceBooking(record)); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, record.ID)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingStoreAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingStoreAdapter) ListBookings(ctx context.Context, query application.BookingQuery) ([]application.Booking, error) {
	models, err := a.repo.ListBookings(ctx, persistence.BookingFilter{
		RoomID:        query.RoomID,
		ParticipantID: query.ParticipantID,
		From:          query.From,
		Until:         query.Until,
	})
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(models), nil
}

func (a *bookingStoreAdapter) ListBookingsForRoom(ctx context.Context, roomID string, from, until time.Time) ([]application.Booking, error) {
	models, err := a.repo.ListBookingsForRoom(ctx, roomID, from, until)
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(models), nil
}

func (a *bookingStoreAdapter) UpdateBookingStatus(ctx context.Context, id string, from, to booking.Status, secretCode string, updatedAt time.Time) (application.Booking, error) {
	var code *string
	if secretCode != "" {
		code = &secretCode
	}
	if err := a.repo.UpdateBookingStatus(ctx, id, from, to, code, updatedAt); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

// blockStoreAdapter bridges the persistence block repository to the
// application's block interfaces.
type blockStoreAdapter struct {
	repo persistence.BlockRepository
}

func newBlockStoreAdapter(repo persistence.BlockRepository) *blockStoreAdapter {
	return &blockStoreAdapter{repo: repo}
}

func (a *blockStoreAdapter) CreateBlock(ctx context.Context, block application.Block) (application.Block, error) {
	if err := a.repo.CreateBlock(ctx, toPersistenceBlock(block)); err != nil {
		return application.Block{}, err
	}
	return block, nil
}

func (a *blockStoreAdapter) ListBlocksForRoom(ctx context.Context, roomID string, from, until time.Time) ([]application.Block, error) {
	models, err := a.repo.ListBlocksForRoom(ctx, roomID, from, until)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	blocks := make([]application.Block, 0, len(models))
	for _, model := range models {
		blocks = append(blocks, toApplicationBlock(model))
	}
	return blocks, nil
}

func (a *blockStoreAdapter) DeleteBlock(ctx context.Context, id string) error {
	return a.repo.DeleteBlock(ctx, id)
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:        model.ID,
		Name:      model.Name,
		Building:  model.Building,
		Capacity:  model.Capacity,
		Category:  application.RoomCategory(model.Category),
		Status:    application.RoomStatus(model.Status),
		OpenHour:  model.OpenHour,
		CloseHour: model.CloseHour,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:        room.ID,
		Name:      room.Name,
		Building:  room.Building,
		Capacity:  room.Capacity,
		Category:  string(room.Category),
		Status:    string(room.Status),
		OpenHour:  room.OpenHour,
		CloseHour: room.CloseHour,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

func toApplicationBooking(model persistence.Booking) application.Booking {
	code := ""
	if model.SecretCode != nil {
		code = *model.SecretCode
	}
	return application.Booking{
		ID:             model.ID,
		RoomID:         model.RoomID,
		Start:          model.Start,
		End:            model.End,
		Purpose:        model.Purpose,
		CreatorID:      model.CreatorID,
		ParticipantIDs: append([]string(nil), model.Participants...),
		Status:         model.Status,
		SecretCode:     code,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toApplicationBookings(models []persistence.Booking) []application.Booking {
	if len(models) == 0 {
		return nil
	}
	records := make([]application.Booking, 0, len(models))
	for _, model := range models {
		records = append(records, toApplicationBooking(model))
	}
	return records
}

func toPersistenceBooking(record application.Booking) persistence.Booking {
	var code *string
	if record.SecretCode != "" {
		value := record.SecretCode
		code = &value
	}
	return persistence.Booking{
		ID:           record.ID,
		RoomID:       record.RoomID,
		Start:        record.Start,
		End:          record.End,
		Purpose:      record.Purpose,
		CreatorID:    record.CreatorID,
		Participants: append([]string(nil), record.ParticipantIDs...),
		Status:       record.Status,
		SecretCode:   code,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toApplicationBlock(model persistence.Block) application.Block {
	note := ""
	if model.Note != nil {
		note = *model.Note
	}
	return application.Block{
		ID:        model.ID,
		RoomID:    model.RoomID,
		Kind:      model.Kind,
		Start:     model.Start,
		End:       model.End,
		Note:      note,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceBlock(block application.Block) persistence.Block {
	var note *string
	if block.Note != "" {
		value := block.Note
		note = &value
	}
	return persistence.Block{
		ID:        block.ID,
		RoomID:    block.RoomID,
		Kind:      block.Kind,
		Start:     block.Start,
		End:       block.End,
		Note:      note,
		CreatedAt: block.CreatedAt,
	}
}
