package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/booking"
)

// RoomRepository persists the room catalog.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// BlockStore persists class and maintenance windows.
type BlockStore interface {
	CreateBlock(ctx context.Context, block Block) (Block, error)
	ListBlocksForRoom(ctx context.Context, roomID string, from, until time.Time) ([]Block, error)
	DeleteBlock(ctx context.Context, id string) error
}

// RoomService orchestrates validation, authorization, and persistence for the
// room catalog and its blocked windows.
type RoomService struct {
	rooms       RoomRepository
	blocks      BlockStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms RoomRepository, blocks BlockStore, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, blocks, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, blocks BlockStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, blocks: blocks, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room for administrators.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "room creation rejected", "error_kind", ErrorKind(err), "error", err)
		}
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}

	normalized := normalizeRoomInput(params.Input)
	vErr := validateRoomInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	room = Room{
		ID:        s.idGenerator(),
		Name:      normalized.Name,
		Building:  normalized.Building,
		Capacity:  normalized.Capacity,
		Category:  normalized.Category,
		Status:    normalized.Status,
		OpenHour:  normalized.OpenHour,
		CloseHour: normalized.CloseHour,
		CreatedAt: now,
		UpdatedAt: now,
	}

	room, err = s.rooms.CreateRoom(ctx, room)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	logger.InfoContext(ctx, "room created", "room_id", room.ID)
	return room, nil
}

// UpdateRoom validates input and updates an existing room for administrators.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "room update rejected", "error_kind", ErrorKind(err), "error", err)
		}
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}

	existing, err := s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeRoomInput(params.Input)
	vErr := validateRoomInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing.Name = normalized.Name
	existing.Building = normalized.Building
	existing.Capacity = normalized.Capacity
	existing.Category = normalized.Category
	existing.Status = normalized.Status
	existing.OpenHour = normalized.OpenHour
	existing.CloseHour = normalized.CloseHour
	existing.UpdatedAt = s.now()

	room, err = s.rooms.UpdateRoom(ctx, existing)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	logger.InfoContext(ctx, "room updated", "room_id", room.ID)
	return room, nil
}

// GetRoom returns a single room.
func (s *RoomService) GetRoom(ctx context.Context, id string) (Room, error) {
	if s == nil {
		return Room{}, fmt.Errorf("RoomService is nil")
	}
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return Room{}, mapRepoError(err)
	}
	return room, nil
}

// ListRooms returns the full room catalog.
func (s *RoomService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room for administrators.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.loggerWith(ctx, "DeleteRoom", "room_id", id).InfoContext(ctx, "room deleted")
	return nil
}

// CreateBlock registers a class or maintenance window for administrators.
func (s *RoomService) CreateBlock(ctx context.Context, params CreateBlockParams) (block Block, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateBlock",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "block creation rejected", "error_kind", ErrorKind(err), "error", err)
		}
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}

	if _, err = s.rooms.GetRoom(ctx, params.RoomID); err != nil {
		err = mapRepoError(err)
		return
	}

	input := params.Input
	vErr := &ValidationError{}
	if input.Kind != booking.BlockClass && input.Kind != booking.BlockMaintenance {
		vErr.add("kind", "kind must be class or maintenance")
	}
	if input.Start.IsZero() || input.End.IsZero() || !input.Start.Before(input.End) {
		vErr.add("time", "start must be before end")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	block = Block{
		ID:        s.idGenerator(),
		RoomID:    params.RoomID,
		Kind:      input.Kind,
		Start:     input.Start,
		End:       input.End,
		Note:      strings.TrimSpace(input.Note),
		CreatedAt: s.now(),
	}

	block, err = s.blocks.CreateBlock(ctx, block)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	logger.InfoContext(ctx, "block created", "block_id", block.ID)
	return block, nil
}

// ListBlocks returns the blocked windows for a room overlapping the given
// window.
func (s *RoomService) ListBlocks(ctx context.Context, roomID string, from, until time.Time) ([]Block, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, mapRepoError(err)
	}
	blocks, err := s.blocks.ListBlocksForRoom(ctx, roomID, from, until)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return blocks, nil
}

// DeleteBlock removes a blocked window for administrators.
func (s *RoomService) DeleteBlock(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if err := s.blocks.DeleteBlock(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.loggerWith(ctx, "DeleteBlock", "block_id", id).InfoContext(ctx, "block deleted")
	return nil
}

func normalizeRoomInput(input RoomInput) RoomInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Building = strings.TrimSpace(input.Building)
	if input.Category == "" {
		input.Category = RoomCategoryOther
	}
	if input.Status == "" {
		input.Status = RoomStatusAvailable
	}
	return input
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Building == "" {
		vErr.add("building", "building is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	switch input.Category {
	case RoomCategoryLecture, RoomCategorySeminar, RoomCategoryOther:
	default:
		vErr.add("category", "unknown category")
	}
	switch input.Status {
	case RoomStatusAvailable, RoomStatusMaintenance, RoomStatusUnavailable:
	default:
		vErr.add("status", "unknown status")
	}
	if input.OpenHour < 0 || input.CloseHour > 24 || input.OpenHour >= input.CloseHour {
		vErr.add("hours", "open hour must be before close hour within a day")
	}
	return vErr
}
