package email

import (
	"context"

	"github.com/Domenick1991/hallbooking/internal/kafka"
	"github.com/rs/zerolog"
)

// Sender delivers booking notifications. Delivery is a structured log line
// until a mail provider is configured.
type Sender struct {
	logger zerolog.Logger
}

func NewSender(logger zerolog.Logger) *Sender {
	return &Sender{logger: logger.With().Str("component", "email").Logger()}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info().
		Str("event", event.Type).
		Int64("user_id", event.UserID).
		Int64("booking_id", event.BookingID).
		Int64("hall_id", event.HallID).
		Str("from", event.StartDate+" "+event.StartTime).
		Str("to", event.EndDate+" "+event.EndTime).
		Msg(Subject(event.Type))
	return nil
}

func Subject(eventType string) string {
	switch eventType {
	case kafka.EventBookingCreated:
		return "Your hall booking is confirmed"
	case kafka.EventBookingCancelled:
		return "Your hall booking was cancelled"
	case kafka.EventBookingExpired:
		return "Your unpaid hall booking was released"
	case kafka.EventPaymentSucceeded:
		return "Payment received"
	case kafka.EventPaymentFailed:
		return "Payment failed"
	}
	return "Booking update"
}
