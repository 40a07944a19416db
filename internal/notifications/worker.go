package notifications

import (
	"context"
	"fmt"

	"bokclean/pkg/kafka"
	"bokclean/pkg/locale"
	"bokclean/pkg/logger"
)

// Sender delivers one rendered notification to a customer. The notifier
// binary plugs in the real email/WhatsApp transport; tests use a fake.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender writes notifications to the log instead of delivering them.
// Used when no transport is configured.
type LogSender struct {
	Log *logger.Logger
}

func (s *LogSender) Send(_ context.Context, recipient, subject, body string) error {
	s.Log.Info("Notification rendered",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}

// Worker consumes lifecycle events and turns them into customer
// notifications.
type Worker struct {
	sender Sender
	log    *logger.Logger
}

func NewWorker(sender Sender, log *logger.Logger) *Worker {
	return &Worker{
		sender: sender,
		log:    log,
	}
}

// Handle is the consumer entrypoint. Unknown event types are skipped,
// not failed: replaying old topics must never hit the DLQ.
func (w *Worker) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()

	switch eventType {
	case EventBookingReceived, EventBookingConfirmed:
		var event BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", eventType, err)
		}
		return w.notifyBooking(ctx, eventType, event)

	case EventCreditsPurchased:
		var event CreditsEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", eventType, err)
		}
		return w.notifyCredits(ctx, event)

	default:
		w.log.Warn("Skipping unknown event type",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}

func (w *Worker) notifyBooking(ctx context.Context, eventType string, event BookingEvent) error {
	// Scheduled times are wall-clock in the customer's region; name the
	// zone so travelling customers are not surprised.
	when := fmt.Sprintf("%s at %s (%s)",
		event.ScheduledDate, event.ScheduledTime, locale.InferTimezoneFromPhone(event.Phone))

	var subject, body string
	switch eventType {
	case EventBookingConfirmed:
		subject = fmt.Sprintf("Booking %s confirmed", event.Reference)
		body = fmt.Sprintf("Hi %s, your %s clean on %s is confirmed. Total: R%.2f.",
			event.FirstName, event.Service, when, event.TotalAmount)
	default:
		subject = fmt.Sprintf("Booking %s received", event.Reference)
		body = fmt.Sprintf("Hi %s, we received your %s clean request for %s. We'll confirm once payment clears. Total: R%.2f.",
			event.FirstName, event.Service, when, event.TotalAmount)
	}

	if event.IsRecurring {
		body += " This booking repeats " + event.Frequency + "."
	}

	if err := w.sender.Send(ctx, event.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send booking notification for %s: %w", event.Reference, err)
	}

	w.log.Info("Booking notification sent",
		"booking_reference", event.Reference,
		"event_type", eventType,
		"recipient", event.Email,
	)
	return nil
}

func (w *Worker) notifyCredits(ctx context.Context, event CreditsEvent) error {
	subject := "BokCred purchase confirmed"
	body := fmt.Sprintf("Your purchase of R%.2f has been credited. New balance: R%.2f.",
		event.Amount, event.NewBalance)

	if err := w.sender.Send(ctx, event.UserID, subject, body); err != nil {
		return fmt.Errorf("failed to send credits notification for user %s: %w", event.UserID, err)
	}
	return nil
}
