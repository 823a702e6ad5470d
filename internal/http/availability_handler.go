package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
)

type availabilityService interface {
	GetAvailability(ctx context.Context, roomID string, date time.Time) ([]booking.TimeSlot, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	base := defaultLogger(logger)
	return &AvailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AvailabilityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AvailabilityHandler", operation, attrs...)
}

// Get serves GET /rooms/{id}/availability?date=YYYY-MM-DD. A missing date
// defaults to today in UTC.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateParam)
			return
		}
		date = parsed
	}

	logger := h.log(r.Context(), "Get", "room_id", roomID, "date", date.Format("2006-01-02"))

	slots, err := h.service.GetAvailability(r.Context(), roomID, date)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{
		RoomID: roomID,
		Date:   date.Format("2006-01-02"),
		Slots:  toSlotDTOs(slots),
	})
}

type availabilityResponse struct {
	RoomID string    `json:"room_id"`
	Date   string    `json:"date"`
	Slots  []slotDTO `json:"slots"`
}

type slotDTO struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

func toSlotDTOs(slots []booking.TimeSlot) []slotDTO {
	if len(slots) == 0 {
		return nil
	}
	out := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotDTO{
			Start:  slot.Start.UTC().Format(time.RFC3339Nano),
			End:    slot.End.UTC().Format(time.RFC3339Nano),
			Status: string(slot.Status),
		})
	}
	return out
}
