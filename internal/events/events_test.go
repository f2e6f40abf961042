package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []string
	bus.Subscribe(EventBookingCreated, func(e *Event) error {
		got = append(got, e.Type)
		return nil
	})
	bus.Subscribe(EventBookingCreated, func(e *Event) error {
		got = append(got, "second")
		return nil
	})
	bus.Subscribe(EventBookingCancelled, func(e *Event) error {
		got = append(got, e.Type)
		return nil
	})

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 1, Status: "pending"})
	require.NoError(t, err)

	assert.Equal(t, []string{EventBookingCreated, "second"}, got)
}

func TestEventBusPayloadRoundTrip(t *testing.T) {
	bus := NewEventBus()

	var payload BookingEventPayload
	bus.Subscribe(EventBookingConfirmed, func(e *Event) error {
		return json.Unmarshal(e.Payload, &payload)
	})

	err := bus.PublishJSON(EventBookingConfirmed, BookingEventPayload{
		BookingID:   42,
		UserID:      "user-1",
		TotalAmount: 150.00,
		Status:      "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), payload.BookingID)
	assert.Equal(t, 150.00, payload.TotalAmount)
}

func TestEventBusNilSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{}))
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NoError(t, bus.PublishJSON("unheard", BookingEventPayload{}))
}
