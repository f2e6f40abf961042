package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"carrental/internal/booking"
	"carrental/internal/database"
	"carrental/internal/events"
	"carrental/internal/metrics"
	"carrental/internal/models"
)

type createBookingRequest struct {
	VehicleID int64  `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// bookingErrorMessages maps validator rejections to their wire messages.
var bookingErrorMessages = map[error]string{
	booking.ErrEndBeforeStart:     "End date must be after start date",
	booking.ErrStartInPast:        "Start date cannot be in the past",
	booking.ErrVehicleUnavailable: "Vehicle is not available",
	booking.ErrDatesConflict:      "Vehicle is already booked for the selected dates",
	booking.ErrAlreadyCancelled:   "Booking is already cancelled",
	booking.ErrNotCancellable:     "Booking can no longer be cancelled",
	booking.ErrCancelTooLate:      "Cannot cancel past or ongoing bookings",
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.VehicleID == 0 || req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	start, err := booking.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	end, err := booking.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	b := &models.Booking{
		UserID:        id.ID,
		VehicleID:     req.VehicleID,
		StartDate:     start,
		EndDate:       end,
		CustomerName:  id.Name,
		CustomerEmail: id.Email,
	}

	err = s.db.CreateBooking(r.Context(), b, booking.Today(s.now()))
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	case bookingErrorMessages[err] != "":
		writeError(w, http.StatusBadRequest, bookingErrorMessages[err])
		return
	case err != nil:
		s.log.Error().Err(err).Int64("vehicle_id", req.VehicleID).Msg("create booking failed")
		writeError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	metrics.IncBookingCreated()
	s.publishBookingEvent(events.EventBookingCreated, b)

	writeSuccess(w, http.StatusCreated, "booking", b)
}

// handleMyBookings returns the caller's bookings as a bare array, newest
// first.
func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())

	bookings, err := s.db.ListUserBookings(r.Context(), id.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", id.ID).Msg("list user bookings failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())

	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	// Owner-scoped lookup: someone else's booking reads as not found.
	b, err := s.db.GetUserBooking(r.Context(), bookingID, id.ID)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("booking_id", bookingID).Msg("get booking failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}

	if err := booking.CanCancel(b, id.ID, booking.Today(s.now())); err != nil {
		if errors.Is(err, booking.ErrNotOwner) {
			writeError(w, http.StatusNotFound, "Booking not found")
			return
		}
		if msg := bookingErrorMessages[err]; msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.UpdateBookingStatus(r.Context(), bookingID, models.StatusCancelled); err != nil {
		s.log.Error().Err(err).Int64("booking_id", bookingID).Msg("cancel booking failed")
		writeError(w, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}
	b.Status = models.StatusCancelled

	metrics.IncBookingCancelled()
	s.publishBookingEvent(events.EventBookingCancelled, b)

	writeSuccess(w, http.StatusOK, "booking", b)
}

func (s *Server) publishBookingEvent(eventType string, b *models.Booking) {
	err := s.bus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID:     b.ID,
		UserID:        b.UserID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		VehicleID:     b.VehicleID,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Msg("publish booking event failed")
	}
}
