package notifications

import (
	"context"
	"fmt"
	"time"

	"bokclean/pkg/kafka"
	"bokclean/pkg/model"
)

const eventSource = "bokclean-bookings"

// Publisher emits lifecycle events keyed by booking reference so all
// events for one booking land on the same partition in order.
type Publisher struct {
	producer *kafka.Producer
}

func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) BookingReceived(ctx context.Context, booking *model.Booking) error {
	return p.publishBooking(ctx, EventBookingReceived, booking)
}

func (p *Publisher) BookingConfirmed(ctx context.Context, booking *model.Booking) error {
	return p.publishBooking(ctx, EventBookingConfirmed, booking)
}

func (p *Publisher) publishBooking(ctx context.Context, eventType string, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.Reference).
		WithValue(newBookingEvent(booking)).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", eventType, booking.Reference, err)
	}
	return nil
}

// CreditsPurchased announces a settled credit purchase, keyed by user
// so one user's credit events stay ordered.
func (p *Publisher) CreditsPurchased(ctx context.Context, userID string, amount, newBalance float64) error {
	msg := kafka.NewMessage().
		WithKey(userID).
		WithValue(CreditsEvent{UserID: userID, Amount: amount, NewBalance: newBalance, OccurredAt: time.Now()}).
		WithEventType(EventCreditsPurchased).
		WithSource("bokclean-credits").
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for user %s: %w", EventCreditsPurchased, userID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
