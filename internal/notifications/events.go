// Package notifications carries booking and credit lifecycle events to
// the notifier service over Kafka.
package notifications

import (
	"time"

	"bokclean/pkg/model"
)

const (
	TopicBookingEvents = "booking-events"
	TopicBookingDLQ    = "booking-events-dlq"
)

const (
	EventBookingReceived  = "booking.received"
	EventBookingConfirmed = "booking.confirmed"
	EventCreditsPurchased = "credits.purchased"
)

// BookingEvent is the wire payload for booking lifecycle events. It
// carries everything the notifier needs to render a message without
// calling back into the bookings service.
type BookingEvent struct {
	Reference     string    `json:"booking_reference"`
	Service       string    `json:"service"`
	Frequency     string    `json:"frequency"`
	ScheduledDate string    `json:"scheduled_date"`
	ScheduledTime string    `json:"scheduled_time"`
	FirstName     string    `json:"first_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	IsRecurring   bool      `json:"is_recurring"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CreditsEvent is the wire payload for credit purchase events.
type CreditsEvent struct {
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	NewBalance float64   `json:"new_balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newBookingEvent(booking *model.Booking) BookingEvent {
	return BookingEvent{
		Reference:     booking.Reference,
		Service:       booking.Service,
		Frequency:     booking.Frequency,
		ScheduledDate: booking.ScheduledDate,
		ScheduledTime: booking.ScheduledTime,
		FirstName:     booking.FirstName,
		Email:         booking.Email,
		Phone:         booking.Phone,
		TotalAmount:   booking.TotalAmount,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		IsRecurring:   booking.IsRecurring,
		OccurredAt:    time.Now(),
	}
}
