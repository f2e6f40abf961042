package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"carrental/internal/database"
	"carrental/internal/events"
	"carrental/internal/metrics"
	"carrental/internal/models"
)

type paymentIntentRequest struct {
	BookingID int64 `json:"booking_id"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())

	var req paymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BookingID == 0 {
		writeError(w, http.StatusBadRequest, "Missing booking_id")
		return
	}

	b, err := s.db.GetUserBooking(r.Context(), req.BookingID, id.ID)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("booking_id", req.BookingID).Msg("get booking failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}
	if b.Status != models.StatusPending {
		writeError(w, http.StatusBadRequest, "Booking is not awaiting payment")
		return
	}

	intent, err := s.payments.CreateIntent(r.Context(), b.TotalAmount, map[string]string{
		"booking_id": strconv.FormatInt(b.ID, 10),
		"user_id":    b.UserID,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("booking_id", b.ID).Msg("create payment intent failed")
		writeError(w, http.StatusInternalServerError, "Failed to create payment intent")
		return
	}

	metrics.IncPaymentIntent()

	writeJSON(w, http.StatusOK, map[string]any{
		"payment_intent_id": intent.ID,
		"client_secret":     intent.ClientSecret,
		"status":            "success",
	})
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())

	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PaymentIntentID == "" {
		writeError(w, http.StatusBadRequest, "Missing payment_intent_id")
		return
	}

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
	if b.Status != models.StatusPending {
		writeError(w, http.StatusBadRequest, "Booking is not awaiting payment")
		return
	}

	// The processor is the source of truth for payment state.
	intent, err := s.payments.GetIntent(r.Context(), req.PaymentIntentID)
	if err != nil {
		s.log.Error().Err(err).Str("payment_intent_id", req.PaymentIntentID).Msg("get payment intent failed")
		writeError(w, http.StatusInternalServerError, "Failed to verify payment")
		return
	}
	if intent.Status != "succeeded" {
		writeError(w, http.StatusBadRequest, "Payment has not succeeded")
		return
	}

	if err := s.db.UpdateBookingStatus(r.Context(), b.ID, models.StatusConfirmed); err != nil {
		s.log.Error().Err(err).Int64("booking_id", b.ID).Msg("confirm booking failed")
		writeError(w, http.StatusInternalServerError, "Failed to confirm booking")
		return
	}
	b.Status = models.StatusConfirmed

	s.publishBookingEvent(events.EventBookingConfirmed, b)

	writeSuccess(w, http.StatusOK, "booking", b)
}
