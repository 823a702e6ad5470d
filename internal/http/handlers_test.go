package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
	"github.com/example/campus-reservations/internal/testfixtures"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	store   *testfixtures.MemoryStore
	clock   *testfixtures.Clock
	handler http.Handler
}

func newTestEnv() *testEnv {
	store := testfixtures.NewMemoryStore()
	clock := testfixtures.NewClock(time.Time{})
	logger := discardLogger()

	roomService := application.NewRoomServiceWithLogger(store, store, testfixtures.NewIDGenerator("room").NextFunc(), clock.NowFunc(), logger)
	availabilityService := application.NewAvailabilityServiceWithLogger(store, store, store, application.AvailabilityConfig{
		SlotMinutes:      30,
		DefaultOpenHour:  8,
		DefaultCloseHour: 22,
	}, logger)
	bookingService := application.NewBookingServiceWithLogger(
		store,
		store,
		availabilityService,
		testfixtures.NewIDGenerator("booking").NextFunc(),
		func() string { return "code-123" },
		clock.NowFunc(),
		15*time.Minute,
		logger,
	)

	handler := NewRouter(RouterConfig{
		Rooms:        NewRoomHandler(roomService, logger),
		Availability: NewAvailabilityHandler(availabilityService, logger),
		Bookings:     NewBookingHandler(bookingService, logger),
		Middleware: []func(http.Handler) http.Handler{
			RequestLogger(logger),
			PrincipalFromHeaders(logger),
		},
	})

	return &testEnv{store: store, clock: clock, handler: handler}
}

func (e *testEnv) do(t *testing.T, method, target, userID, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func seedSeminarRoom(env *testEnv) testfixtures.RoomFixture {
	fixture := testfixtures.NewRoomFixture(testfixtures.WithRoomHours(9, 18))
	env.store.SeedRoom(fixture.Application())
	return fixture
}

func TestAvailabilityEndpoint(t *testing.T) {
	t.Run("returns the slot grid with booked windows marked", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)

		date := testfixtures.ReferenceTime().Truncate(24 * time.Hour)
		env.store.SeedBooking(testfixtures.NewBookingFixture(
			testfixtures.WithBookingRoom(room.ID),
			testfixtures.WithBookingWindow(date.Add(10*time.Hour), date.Add(11*time.Hour)),
			testfixtures.WithBookingStatus(booking.StatusApproved),
		).Application())

		rec := env.do(t, http.MethodGet, "/rooms/"+room.ID+"/availability?date="+date.Format("2006-01-02"), "alice", "student", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp availabilityResponse
		decodeBody(t, rec, &resp)
		if len(resp.Slots) != 18 {
			t.Fatalf("expected 18 slots, got %d", len(resp.Slots))
		}

		booked := 0
		for _, slot := range resp.Slots {
			if slot.Status == "booked" {
				booked++
			}
		}
		if booked != 2 {
			t.Fatalf("expected two booked slots for a one hour booking, got %d", booked)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)

		rec := env.do(t, http.MethodGet, "/rooms/"+room.ID+"/availability?date=03-03-2025", "alice", "student", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown room yields 404", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodGet, "/rooms/missing/availability", "alice", "student", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBookingEndpoints(t *testing.T) {
	submitBody := func(roomID string, start, end time.Time) string {
		payload := map[string]any{
			"room_id":         roomID,
			"start":           start.Format(time.RFC3339),
			"end":             end.Format(time.RFC3339),
			"purpose":         "project meeting",
			"participant_ids": []string{"alice", "bob"},
		}
		raw, _ := json.Marshal(payload)
		return string(raw)
	}

	t.Run("submission creates a pending booking", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		start := env.clock.Now().Add(time.Hour)

		rec := env.do(t, http.MethodPost, "/bookings", "alice", "student", submitBody(room.ID, start, start.Add(time.Hour)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp bookingResponse
		decodeBody(t, rec, &resp)
		if resp.Booking.Status != "pending" {
			t.Fatalf("expected pending, got %s", resp.Booking.Status)
		}
		if resp.Booking.SecretCode != "" {
			t.Fatalf("pending bookings must not carry an access code, got %q", resp.Booking.SecretCode)
		}
		if resp.Booking.CreatorID != "alice" {
			t.Fatalf("expected creator alice, got %s", resp.Booking.CreatorID)
		}
	})

	t.Run("requests without an identity are rejected", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		start := env.clock.Now().Add(time.Hour)

		rec := env.do(t, http.MethodPost, "/bookings", "", "", submitBody(room.ID, start, start.Add(time.Hour)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("overlapping submission yields a retryable conflict", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		start := env.clock.Now().Add(time.Hour)
		env.store.SeedBooking(testfixtures.NewBookingFixture(
			testfixtures.WithBookingRoom(room.ID),
			testfixtures.WithBookingWindow(start, start.Add(time.Hour)),
			testfixtures.WithBookingStatus(booking.StatusApproved),
		).Application())

		rec := env.do(t, http.MethodPost, "/bookings", "alice", "student", submitBody(room.ID, start.Add(30*time.Minute), start.Add(90*time.Minute)))
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.ErrorCode != "BOOKING_CONFLICT" {
			t.Fatalf("expected BOOKING_CONFLICT, got %q", resp.ErrorCode)
		}
	})

	t.Run("window during a class yields an unprocessable entity", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		start := env.clock.Now().Add(time.Hour)
		env.store.SeedBlock(testfixtures.NewBlockFixture(
			testfixtures.WithBlockRoom(room.ID),
			testfixtures.WithBlockWindow(start, start.Add(time.Hour)),
		).Application())

		rec := env.do(t, http.MethodPost, "/bookings", "alice", "student", submitBody(room.ID, start, start.Add(time.Hour)))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.ErrorCode != "ROOM_UNAVAILABLE" {
			t.Fatalf("expected ROOM_UNAVAILABLE, got %q", resp.ErrorCode)
		}
	})

	t.Run("listing is scoped for students", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		base := env.clock.Now()
		env.store.SeedBooking(testfixtures.NewBookingFixture(
			testfixtures.WithBookingRoom(room.ID),
			testfixtures.WithBookingWindow(base.Add(time.Hour), base.Add(2*time.Hour)),
			testfixtures.WithBookingCreator("alice"),
		).Application())
		env.store.SeedBooking(testfixtures.NewBookingFixture(
			testfixtures.WithBookingRoom(room.ID),
			testfixtures.WithBookingWindow(base.Add(3*time.Hour), base.Add(4*time.Hour)),
			testfixtures.WithBookingCreator("carol"),
		).Application())

		rec := env.do(t, http.MethodGet, "/bookings", "alice", "student", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp listBookingsResponse
		decodeBody(t, rec, &resp)
		if len(resp.Bookings) != 1 || resp.Bookings[0].CreatorID != "alice" {
			t.Fatalf("expected only alice's booking, got %v", resp.Bookings)
		}

		rec = env.do(t, http.MethodGet, "/bookings", "guard-1", "guard", "")
		decodeBody(t, rec, &resp)
		if len(resp.Bookings) != 2 {
			t.Fatalf("guard should see every booking, got %d", len(resp.Bookings))
		}
	})
}

func TestTransitionEndpoint(t *testing.T) {
	seedPending := func(env *testEnv, roomID string) string {
		base := env.clock.Now()
		fixture := testfixtures.NewBookingFixture(
			testfixtures.WithBookingRoom(roomID),
			testfixtures.WithBookingWindow(base.Add(time.Hour), base.Add(2*time.Hour)),
			testfixtures.WithBookingCreator("alice"),
		)
		env.store.SeedBooking(fixture.Application())
		return fixture.ID
	}

	t.Run("guard approval issues the access code", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		id := seedPending(env, room.ID)

		rec := env.do(t, http.MethodPost, "/bookings/"+id+"/transitions", "guard-1", "guard", `{"action":"approve"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp bookingResponse
		decodeBody(t, rec, &resp)
		if resp.Booking.Status != "approved" {
			t.Fatalf("expected approved, got %s", resp.Booking.Status)
		}
		if resp.Booking.SecretCode != "code-123" {
			t.Fatalf("expected access code in guard response, got %q", resp.Booking.SecretCode)
		}
	})

	t.Run("students cannot approve", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		id := seedPending(env, room.ID)

		rec := env.do(t, http.MethodPost, "/bookings/"+id+"/transitions", "alice", "student", `{"action":"approve"}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}

		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.ErrorCode != "FORBIDDEN" {
			t.Fatalf("expected FORBIDDEN, got %q", resp.ErrorCode)
		}
	})

	t.Run("undefined transitions yield a conflict", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		id := seedPending(env, room.ID)

		rec := env.do(t, http.MethodPost, "/bookings/"+id+"/transitions", "guard-1", "guard", `{"action":"issue_key"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.ErrorCode != "INVALID_TRANSITION" {
			t.Fatalf("expected INVALID_TRANSITION, got %q", resp.ErrorCode)
		}
	})
}

func TestRoomEndpoints(t *testing.T) {
	roomBody := `{"name":"Seminar B","building":"Annex","capacity":16,"category":"seminar","status":"available","open_hour":8,"close_hour":20}`

	t.Run("admins manage the catalog", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodPost, "/rooms", "admin-1", "admin", roomBody)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var created roomResponse
		decodeBody(t, rec, &created)
		if created.Room.Name != "Seminar B" {
			t.Fatalf("unexpected room payload: %+v", created.Room)
		}

		rec = env.do(t, http.MethodGet, "/rooms/"+created.Room.ID, "alice", "student", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = env.do(t, http.MethodDelete, "/rooms/"+created.Room.ID, "admin-1", "admin", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("non admins cannot mutate the catalog", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodPost, "/rooms", "staff-1", "staff", roomBody)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("validation failures list the offending fields", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodPost, "/rooms", "admin-1", "admin", `{"name":"","building":"","capacity":0,"open_hour":9,"close_hour":18}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp errorResponse
		decodeBody(t, rec, &resp)
		if len(resp.Errors) == 0 {
			t.Fatal("expected field errors in the response")
		}
	})

	t.Run("block lifecycle", func(t *testing.T) {
		env := newTestEnv()
		room := seedSeminarRoom(env)
		start := env.clock.Now().Add(2 * time.Hour)

		body, _ := json.Marshal(map[string]any{
			"kind":  "maintenance",
			"start": start.Format(time.RFC3339),
			"end":   start.Add(time.Hour).Format(time.RFC3339),
			"note":  "projector repair",
		})

		rec := env.do(t, http.MethodPost, "/rooms/"+room.ID+"/blocks", "admin-1", "admin", string(body))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var created blockResponse
		decodeBody(t, rec, &created)

		query := "?from=" + start.Add(-time.Hour).UTC().Format(time.RFC3339) + "&until=" + start.Add(2*time.Hour).UTC().Format(time.RFC3339)
		rec = env.do(t, http.MethodGet, "/rooms/"+room.ID+"/blocks"+query, "alice", "student", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var listed listBlocksResponse
		decodeBody(t, rec, &listed)
		if len(listed.Blocks) != 1 {
			t.Fatalf("expected one block, got %d", len(listed.Blocks))
		}

		rec = env.do(t, http.MethodDelete, "/blocks/"+created.Block.ID, "admin-1", "admin", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
