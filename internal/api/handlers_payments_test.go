package api

import (
	"net/http"
	"strconv"
	"testing"

	"carrental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent(t *testing.T) {
	env := newTestEnv(t)
	vehicle := env.createVehicle(t, 50.0, true)
	booking := env.createBooking(t, userToken, vehicle.ID, "2024-01-10", "2024-01-13")

	rec := env.do(t, http.MethodPost, "/api/payment_intent", userToken, map[string]any{
		"booking_id": booking["id"],
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "pi_test_1", body["payment_intent_id"])
	assert.Equal(t, "cs_test_secret", body["client_secret"])
	assert.Equal(t, "success", body["status"])

	// Intent metadata ties the charge back to the booking and its owner.
	assert.Equal(t, "user-1", env.payments.lastMetadata["user_id"])
	assert.NotEmpty(t, env.payments.lastMetadata["booking_id"])
}

func TestCreatePaymentIntentErrors(t *testing.T) {
	env := newTestEnv(t)
	vehicle := env.createVehicle(t, 50.0, true)
	booking := env.createBooking(t, userToken, vehicle.ID, "2024-01-10", "2024-01-13")

	t.Run("missing booking_id", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/payment_intent", userToken, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing booking_id", decodeBody(t, rec)["error"])
	})

	t.Run("unknown booking", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/payment_intent", userToken, map[string]any{"booking_id": 9999})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Booking not found", decodeBody(t, rec)["error"])
	})

	t.Run("foreign booking", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/payment_intent", otherToken, map[string]any{"booking_id": booking["id"]})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		cancelled := env.createBooking(t, userToken, vehicle.ID, "2024-02-01", "2024-02-03")
		rec := env.do(t, http.MethodPatch, bookingCancelPath(cancelled), userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/payment_intent", userToken, map[string]any{"booking_id": cancelled["id"]})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Booking is not awaiting payment", decodeBody(t, rec)["error"])
	})
}

func TestConfirmPayment(t *testing.T) {
	env := newTestEnv(t)
	vehicle := env.createVehicle(t, 50.0, true)
	booking := env.createBooking(t, userToken, vehicle.ID, "2024-01-10", "2024-01-13")

	rec := env.do(t, http.MethodPost, "/api/payment_intent", userToken, map[string]any{"booking_id": booking["id"]})
	require.Equal(t, http.StatusOK, rec.Code)
	intentID := decodeBody(t, rec)["payment_intent_id"].(string)

	confirmPath := confirmPaymentPath(booking)

	t.Run("not yet succeeded", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, confirmPath, userToken, map[string]any{
			"payment_intent_id": intentID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Payment has not succeeded", decodeBody(t, rec)["error"])
	})

	t.Run("succeeded confirms booking", func(t *testing.T) {
		env.payments.intents[intentID].Status = "succeeded"

		rec := env.do(t, http.MethodPost, confirmPath, userToken, map[string]any{
			"payment_intent_id": intentID,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, models.StatusConfirmed, decodeBody(t, rec)["booking"].(map[string]any)["status"])
	})

	t.Run("already confirmed", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, confirmPath, userToken, map[string]any{
			"payment_intent_id": intentID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Booking is not awaiting payment", decodeBody(t, rec)["error"])
	})

	t.Run("foreign booking", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, confirmPath, otherToken, map[string]any{
			"payment_intent_id": intentID,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestConfirmPaymentMissingIntentID(t *testing.T) {
	env := newTestEnv(t)
	vehicle := env.createVehicle(t, 50.0, true)
	booking := env.createBooking(t, userToken, vehicle.ID, "2024-01-10", "2024-01-13")

	rec := env.do(t, http.MethodPost, confirmPaymentPath(booking), userToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing payment_intent_id", decodeBody(t, rec)["error"])
}

func confirmPaymentPath(booking map[string]any) string {
	id := int64(booking["id"].(float64))
	return "/api/bookings/" + strconv.FormatInt(id, 10) + "/confirm_payment"
}
