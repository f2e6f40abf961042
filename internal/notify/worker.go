// Package notify pushes booking lifecycle messages to the admin Telegram
// chat. Delivery is asynchronous and best-effort: it never blocks or fails
// a request, and retries happen outside the request path.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carrental/internal/events"
	"carrental/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender delivers one message to the admin channel.
type Sender interface {
	Send(text string) error
}

// TelegramSender posts messages to a fixed chat via the Bot API.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(botToken string, chatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

func (s *TelegramSender) Send(text string) error {
	_, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text))
	return err
}

// Worker consumes queued messages and delivers them with backoff retry.
type Worker struct {
	sender Sender
	queue  chan string
	retry  RetryPolicy
	log    zerolog.Logger
}

func NewWorker(sender Sender, retry RetryPolicy, logger *zerolog.Logger) *Worker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 30 * time.Second
	}

	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "notify").Logger()
	}

	return &Worker{
		sender: sender,
		queue:  make(chan string, models.NotifyQueueSize),
		retry:  retry,
		log:    base,
	}
}

// Enqueue schedules a message without blocking; a full queue drops it.
func (w *Worker) Enqueue(text string) {
	select {
	case w.queue <- text:
	default:
		w.log.Warn().Msg("notify queue full, message dropped")
	}
}

// Start runs the delivery loop until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("notify worker started")
	defer w.log.Info().Msg("notify worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case text := <-w.queue:
			w.deliver(ctx, text)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, text string) {
	for attempt := 1; ; attempt++ {
		err := w.sender.Send(text)
		if err == nil {
			return
		}
		if attempt >= w.retry.MaxRetries {
			w.log.Error().Err(err).Int("attempts", attempt).Msg("notification dropped")
			return
		}

		w.log.Warn().Err(err).Int("attempt", attempt).Msg("notification send failed, retrying")
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retry.NextDelay(attempt)):
		}
	}
}

// BookingEventHandler adapts the worker to the event bus: it formats the
// booking snapshot and enqueues the message.
func (w *Worker) BookingEventHandler() events.EventHandler {
	return func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return fmt.Errorf("decode booking event: %w", err)
		}
		w.Enqueue(formatBookingEvent(e.Type, p))
		return nil
	}
}

func formatBookingEvent(eventType string, p events.BookingEventPayload) string {
	var action string
	switch eventType {
	case events.EventBookingCreated:
		action = "New booking"
	case events.EventBookingConfirmed:
		action = "Payment confirmed"
	case events.EventBookingCancelled:
		action = "Booking cancelled"
	default:
		action = "Booking update"
	}

	return fmt.Sprintf("%s #%d: vehicle %d, %s to %s, %.2f (%s, %s)",
		action,
		p.BookingID,
		p.VehicleID,
		p.StartDate.Format(models.DateLayout),
		p.EndDate.Format(models.DateLayout),
		p.TotalAmount,
		p.CustomerName,
		p.CustomerEmail,
	)
}
