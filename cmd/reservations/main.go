package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/config"
	httptransport "github.com/example/campus-reservations/internal/http"
	"github.com/example/campus-reservations/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	codeGenerator := func() string { return randomHex(6) }
	now := time.Now

	rooms := newRoomRepositoryAdapter(sqlite.NewRoomRepository(storage))
	bookings := newBookingStoreAdapter(sqlite.NewBookingRepository(storage))
	blocks := newBlockStoreAdapter(sqlite.NewBlockRepository(storage))

	availabilityService := application.NewAvailabilityServiceWithLogger(rooms, bookings, blocks, application.AvailabilityConfig{
		SlotMinutes:      cfg.SlotMinutes,
		DefaultOpenHour:  cfg.DefaultOpenHour,
		DefaultCloseHour: cfg.DefaultCloseHour,
	}, logger)
	bookingService := application.NewBookingServiceWithLogger(rooms, bookings, availabilityService, idGenerator, codeGenerator, now, cfg.OverdueGrace, logger)
	roomService := application.NewRoomServiceWithLogger(rooms, blocks, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:        httptransport.NewRoomHandler(roomService, logger),
		Availability: httptransport.NewAvailabilityHandler(availabilityService, logger),
		Bookings:     httptransport.NewBookingHandler(bookingService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.PrincipalFromHeaders(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservations API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 6
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
