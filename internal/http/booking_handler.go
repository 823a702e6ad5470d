package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
)

type bookingService interface {
	SubmitBooking(ctx context.Context, params application.SubmitBookingParams) (application.Booking, error)
	TransitionStatus(ctx context.Context, params application.TransitionParams) (application.Booking, error)
	GetBooking(ctx context.Context, principal application.Principal, id string) (application.Booking, error)
	ListBookings(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "room_id", req.RoomID)

	result, err := h.service.SubmitBooking(r.Context(), application.SubmitBookingParams{
		Principal: principal,
		Input: application.BookingInput{
			RoomID:         strings.TrimSpace(req.RoomID),
			Start:          req.Start,
			End:            req.End,
			Purpose:        req.Purpose,
			ParticipantIDs: req.ParticipantIDs,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking submission failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", result.ID).InfoContext(r.Context(), "booking submitted")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(result)})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	result, err := h.service.GetBooking(r.Context(), principal, bookingID)
	if err != nil {
		h.log(r.Context(), "Get", "principal_id", principal.UserID, "booking_id", bookingID).ErrorContext(r.Context(), "booking fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(result)})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	params := application.ListBookingsParams{
		Principal:     principal,
		RoomID:        strings.TrimSpace(r.URL.Query().Get("room")),
		ParticipantID: strings.TrimSpace(r.URL.Query().Get("participant")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRangeParam)
			return
		}
		params.From = &parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("until")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRangeParam)
			return
		}
		params.Until = &parsed
	}

	results, err := h.service.ListBookings(r.Context(), params)
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.UserID).ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(results)})
}

func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Transition", "principal_id", principal.UserID, "booking_id", bookingID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode transition request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Transition", "principal_id", principal.UserID, "booking_id", bookingID, "action", req.Action)

	result, err := h.service.TransitionStatus(r.Context(), application.TransitionParams{
		Principal: principal,
		BookingID: bookingID,
		Action:    booking.Action(strings.TrimSpace(req.Action)),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "transition failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", string(result.Status)).InfoContext(r.Context(), "booking transitioned")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(result)})
}

type bookingRequest struct {
	RoomID         string    `json:"room_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Purpose        string    `json:"purpose"`
	ParticipantIDs []string  `json:"participant_ids"`
}

type transitionRequest struct {
	Action string `json:"action"`
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type bookingDTO struct {
	ID             string   `json:"id"`
	RoomID         string   `json:"room_id"`
	Start          string   `json:"start"`
	End            string   `json:"end"`
	Purpose        string   `json:"purpose,omitempty"`
	CreatorID      string   `json:"creator_id"`
	ParticipantIDs []string `json:"participant_ids"`
	Status         string   `json:"status"`
	SecretCode     string   `json:"secret_code,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func toBookingDTO(record application.Booking) bookingDTO {
	return bookingDTO{
		ID:             record.ID,
		RoomID:         record.RoomID,
		Start:          record.Start.UTC().Format(time.RFC3339Nano),
		End:            record.End.UTC().Format(time.RFC3339Nano),
		Purpose:        record.Purpose,
		CreatorID:      record.CreatorID,
		ParticipantIDs: record.ParticipantIDs,
		Status:         string(record.Status),
		SecretCode:     record.SecretCode,
		CreatedAt:      record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toBookingDTOs(records []application.Booking) []bookingDTO {
	if len(records) == 0 {
		return nil
	}
	out := make([]bookingDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toBookingDTO(record))
	}
	return out
}
