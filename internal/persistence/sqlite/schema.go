package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is a single in-code schema step. Steps are applied in order inside
// individual transactions and recorded in schema_migrations, so restarting
// after a partial upgrade resumes where it stopped.
type migration struct {
	version    string
	statements []string
}

var migrations = []migration{
	{
		version: "0001_rooms",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS rooms (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				building   TEXT NOT NULL,
				capacity   INTEGER NOT NULL CHECK (capacity > 0),
				category   TEXT NOT NULL,
				status     TEXT NOT NULL,
				open_hour  INTEGER NOT NULL,
				close_hour INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (open_hour < close_hour)
			)`,
		},
	},
	{
		version: "0002_bookings",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS bookings (
				id          TEXT PRIMARY KEY,
				room_id     TEXT NOT NULL REFERENCES rooms(id),
				start_time  TEXT NOT NULL,
				end_time    TEXT NOT NULL,
				purpose     TEXT NOT NULL,
				creator_id  TEXT NOT NULL,
				status      TEXT NOT NULL,
				secret_code TEXT,
				created_at  TEXT NOT NULL,
				updated_at  TEXT NOT NULL,
				CHECK (start_time < end_time)
			)`,
			`CREATE TABLE IF NOT EXISTS booking_participants (
				booking_id TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
				user_id    TEXT NOT NULL,
				PRIMARY KEY (booking_id, user_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_room_window
				ON bookings(room_id, start_time, end_time)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		},
	},
	{
		version: "0003_room_blocks",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS room_blocks (
				id         TEXT PRIMARY KEY,
				room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
				kind       TEXT NOT NULL CHECK (kind IN ('class', 'maintenance')),
				start_time TEXT NOT NULL,
				end_time   TEXT NOT NULL,
				note       TEXT,
				created_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_room_blocks_room_window
				ON room_blocks(room_id, start_time, end_time)`,
		},
	},
}

// Migrate applies all pending schema migrations.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to initialize schema_migrations: %w", err)
	}

	applied, err := cp.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if _, ok := applied[m.version]; ok {
			continue
		}
		if err := cp.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.version, err)
		}
	}

	return nil
}

func (cp *ConnectionPool) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := cp.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = struct{}{}
	}
	return applied, rows.Err()
}

func (cp *ConnectionPool) applyMigration(ctx context.Context, m migration) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		_, err := tx.Exec(
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			m.version, time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
}
