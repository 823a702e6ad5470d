package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// BlockRepository implements persistence.BlockRepository using SQLite.
type BlockRepository struct {
	pool *ConnectionPool
}

// NewBlockRepository creates a new SQLite block repository.
func NewBlockRepository(pool *ConnectionPool) *BlockRepository {
	return &BlockRepository{pool: pool}
}

// CreateBlock inserts a class or maintenance window for a room.
func (r *BlockRepository) CreateBlock(ctx context.Context, block persistence.Block) error {
	if block.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO room_blocks (id, room_id, kind, start_time, end_time, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		block.ID,
		block.RoomID,
		string(block.Kind),
		block.Start.UTC().Format(time.RFC3339),
		block.End.UTC().Format(time.RFC3339),
		nullableString(block.Note),
		block.CreatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// ListBlocksForRoom returns the blocked windows for a room overlapping
// [from, until) under the half-open rule, ordered by start time.
func (r *BlockRepository) ListBlocksForRoom(ctx context.Context, roomID string, from, until time.Time) ([]persistence.Block, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, room_id, kind, start_time, end_time, note, created_at
		FROM room_blocks
		WHERE room_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC, id ASC
	`, roomID, until.UTC().Format(time.RFC3339), from.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var blocks []persistence.Block
	for rows.Next() {
		var block persistence.Block
		var kind, start, end, createdAt string
		var note sql.NullString

		if err := rows.Scan(&block.ID, &block.RoomID, &kind, &start, &end, &note, &createdAt); err != nil {
			return nil, mapError(err)
		}

		block.Kind = booking.BlockKind(kind)
		if note.Valid {
			block.Note = &note.String
		}
		if block.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if block.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("failed to parse end_time: %w", err)
		}
		if block.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return blocks, nil
}

// DeleteBlock removes a blocked window by ID.
func (r *BlockRepository) DeleteBlock(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM room_blocks WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
