package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carrental/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	mu       sync.Mutex
	sent     []string
	failures int
}

func (s *stubSender) Send(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("telegram unreachable")
	}
	s.sent = append(s.sent, text)
	return nil
}

func (s *stubSender) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWorkerDelivers(t *testing.T) {
	sender := &stubSender{}
	w := NewWorker(sender, RetryPolicy{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue("hello")
	waitFor(t, func() bool { return len(sender.messages()) == 1 })
	assert.Equal(t, "hello", sender.messages()[0])
}

func TestWorkerRetries(t *testing.T) {
	sender := &stubSender{failures: 2}
	w := NewWorker(sender, RetryPolicy{
		MaxRetries:   5,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue("eventually")
	waitFor(t, func() bool { return len(sender.messages()) == 1 })
}

func TestWorkerGivesUp(t *testing.T) {
	sender := &stubSender{failures: 100}
	w := NewWorker(sender, RetryPolicy{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue("doomed")
	w.Enqueue("next")
	// second message still drains after the first is dropped
	sender.mu.Lock()
	sender.failures = 0
	sender.mu.Unlock()
	waitFor(t, func() bool { return len(sender.messages()) >= 1 })
}

func TestBookingEventHandler(t *testing.T) {
	sender := &stubSender{}
	w := NewWorker(sender, RetryPolicy{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	bus := events.NewEventBus()
	bus.Subscribe(events.EventBookingCreated, w.BookingEventHandler())

	start, _ := time.Parse("2006-01-02", "2024-01-10")
	end, _ := time.Parse("2006-01-02", "2024-01-13")
	err := bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:     7,
		VehicleID:     3,
		StartDate:     start,
		EndDate:       end,
		TotalAmount:   150.00,
		CustomerName:  "Jess",
		CustomerEmail: "jess@example.com",
	})
	require.NoError(t, err)

	waitFor(t, func() bool { return len(sender.messages()) == 1 })
	msg := sender.messages()[0]
	assert.Contains(t, msg, "New booking #7")
	assert.Contains(t, msg, "2024-01-10 to 2024-01-13")
	assert.Contains(t, msg, "150.00")
}

func TestRetryPolicyNextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, 5*time.Second, p.NextDelay(4)) // clamped
	assert.Equal(t, time.Second, p.NextDelay(0))   // floor
}
