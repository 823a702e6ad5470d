package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration for the reservations service.
type Config struct {
	HTTPPort int
	// SQLiteDSN locates the reservations database.
	SQLiteDSN string
	// DefaultOpenHour and DefaultCloseHour bound the bookable day for rooms
	// that carry no operating hours of their own.
	DefaultOpenHour  int
	DefaultCloseHour int
	// SlotMinutes is the fixed granularity of generated availability slots.
	SlotMinutes int
	// OverdueGrace is how long after a booking's end a key may still be
	// returned before the booking can be marked overdue.
	OverdueGrace time.Duration
}

// Load parses configuration from the process environment, after layering in
// an optional .env file. Defaults apply to every field; invalid values are
// accumulated and reported together.
func Load() (Config, error) {
	// Missing .env is the common case in production; ignore it.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:         8080,
		SQLiteDSN:        "file:reservations.db?_foreign_keys=on",
		DefaultOpenHour:  8,
		DefaultCloseHour: 22,
		SlotMinutes:      30,
		OverdueGrace:     30 * time.Minute,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("RESERVATIONS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "RESERVATIONS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVATIONS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if openValue := strings.TrimSpace(os.Getenv("RESERVATIONS_OPEN_HOUR")); openValue != "" {
		open, err := strconv.Atoi(openValue)
		if err != nil || open < 0 || open > 23 {
			invalid = append(invalid, "RESERVATIONS_OPEN_HOUR")
		} else {
			cfg.DefaultOpenHour = open
		}
	}

	if closeValue := strings.TrimSpace(os.Getenv("RESERVATIONS_CLOSE_HOUR")); closeValue != "" {
		close, err := strconv.Atoi(closeValue)
		if err != nil || close < 1 || close > 24 {
			invalid = append(invalid, "RESERVATIONS_CLOSE_HOUR")
		} else {
			cfg.DefaultCloseHour = close
		}
	}

	if slotValue := strings.TrimSpace(os.Getenv("RESERVATIONS_SLOT_MINUTES")); slotValue != "" {
		slot, err := strconv.Atoi(slotValue)
		if err != nil || slot <= 0 {
			invalid = append(invalid, "RESERVATIONS_SLOT_MINUTES")
		} else {
			cfg.SlotMinutes = slot
		}
	}

	if graceValue := strings.TrimSpace(os.Getenv("RESERVATIONS_OVERDUE_GRACE")); graceValue != "" {
		grace, err := time.ParseDuration(graceValue)
		if err != nil || grace < 0 {
			invalid = append(invalid, "RESERVATIONS_OVERDUE_GRACE")
		} else {
			cfg.OverdueGrace = grace
		}
	}

	if cfg.DefaultOpenHour >= cfg.DefaultCloseHour {
		invalid = append(invalid, "RESERVATIONS_OPEN_HOUR/RESERVATIONS_CLOSE_HOUR")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
