package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool *ConnectionPool
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = "id, room_id, start_time, end_time, purpose, creator_id, status, secret_code, created_at, updated_at"

// blockingStatuses holds the statuses that reserve a room window against
// competing bookings. Kept as a SQL fragment because the conflict check runs
// inside the insert transaction.
const blockingStatuses = "('approved', 'confirmed', 'key_issued')"

// CreateBooking inserts a booking and its participants. The room/window
// conflict check runs inside the same transaction as the insert: if any
// booking in a blocking status overlaps the candidate's half-open window,
// nothing is written and ErrConflict is returned.
func (r *BookingRepository) CreateBooking(ctx context.Context, record persistence.Booking) error {
	if record.ID == "" || len(record.Participants) == 0 {
		return persistence.ErrConstraintViolation
	}

	start := record.Start.UTC().Format(time.RFC3339)
	end := record.End.UTC().Format(time.RFC3339)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var overlapping int
		err := tx.QueryRow(`
			SELECT COUNT(*)
			FROM bookings
			WHERE room_id = ?
			  AND status IN `+blockingStatuses+`
			  AND start_time < ?
			  AND end_time > ?
		`, record.RoomID, end, start).Scan(&overlapping)
		if err != nil {
			return mapError(err)
		}
		if overlapping > 0 {
			return persistence.ErrConflict
		}

		_, err = tx.Exec(`
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			record.ID,
			record.RoomID,
			start,
			end,
			record.Purpose,
			record.CreatorID,
			string(record.Status),
			nullableString(record.SecretCode),
			record.CreatedAt.UTC().Format(time.RFC3339),
			record.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}

		for _, participant := range record.Participants {
			participant = strings.TrimSpace(participant)
			if participant == "" {
				continue
			}
			if _, err := tx.Exec(
				"INSERT INTO booking_participants (booking_id, user_id) VALUES (?, ?)",
				record.ID, participant,
			); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetBooking retrieves a booking and its participants by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	record, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, mapError(err)
	}

	participants, err := r.loadParticipants(ctx, id)
	if err != nil {
		return persistence.Booking{}, err
	}
	record.Participants = participants
	return record, nil
}

// ListBookings lists bookings narrowed by the provided filter, ordered by
// start time.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query, args := buildBookingListQuery(filter)

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []persistence.Booking
	for rows.Next() {
		record, err := scanBooking(rows)
		if err != nil {
			return nil, mapError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range records {
		participants, err := r.loadParticipants(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Participants = participants
	}
	return records, nil
}

// ListBookingsForRoom returns the bookings for a room whose windows overlap
// [from, until) under the half-open rule, regardless of status.
func (r *BookingRepository) ListBookingsForRoom(ctx context.Context, roomID string, from, until time.Time) ([]persistence.Booking, error) {
	return r.ListBookings(ctx, persistence.BookingFilter{
		RoomID: roomID,
		From:   &from,
		Until:  &until,
	})
}

// UpdateBookingStatus transitions a booking from an expected current status.
// The expected-status predicate makes concurrent transitions race-safe: the
// loser of the race sees zero affected rows and gets ErrConflict.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id string, from, to booking.Status, secretCode *string, updatedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, secret_code = COALESCE(?, secret_code), updated_at = ?
		WHERE id = ? AND status = ?
	`,
		string(to),
		nullableString(secretCode),
		updatedAt.UTC().Format(time.RFC3339),
		id,
		string(from),
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a missing booking from a lost status race.
	var exists int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings WHERE id = ?", id).Scan(&exists); err != nil {
		return mapError(err)
	}
	if exists == 0 {
		return persistence.ErrNotFound
	}
	return persistence.ErrConflict
}

func (r *BookingRepository) loadParticipants(ctx context.Context, bookingID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT user_id FROM booking_participants WHERE booking_id = ? ORDER BY user_id ASC", bookingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, mapError(err)
		}
		participants = append(participants, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return participants, nil
}

func buildBookingListQuery(filter persistence.BookingFilter) (string, []any) {
	query := "SELECT DISTINCT b." + strings.ReplaceAll(bookingColumns, ", ", ", b.") + " FROM bookings b"

	var conditions []string
	var args []any

	if filter.ParticipantID != "" {
		query += " LEFT JOIN booking_participants bp ON b.id = bp.booking_id"
		conditions = append(conditions, "(bp.user_id = ? OR b.creator_id = ?)")
		args = append(args, filter.ParticipantID, filter.ParticipantID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, "b.room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.From != nil {
		conditions = append(conditions, "b.end_time > ?")
		args = append(args, filter.From.UTC().Format(time.RFC3339))
	}
	if filter.Until != nil {
		conditions = append(conditions, "b.start_time < ?")
		args = append(args, filter.Until.UTC().Format(time.RFC3339))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.start_time ASC, b.id ASC"

	return query, args
}

func scanBooking(scanner rowScanner) (persistence.Booking, error) {
	var record persistence.Booking
	var start, end, createdAt, updatedAt, status string
	var secretCode sql.NullString

	err := scanner.Scan(
		&record.ID,
		&record.RoomID,
		&start,
		&end,
		&record.Purpose,
		&record.CreatorID,
		&status,
		&secretCode,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	record.Status = booking.Status(status)
	if secretCode.Valid {
		record.SecretCode = &secretCode.String
	}

	if record.Start, err = time.Parse(time.RFC3339, start); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if record.End, err = time.Parse(time.RFC3339, end); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return record, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
