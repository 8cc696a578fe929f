package kafka

import (
	"encoding/json"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/google/uuid"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventBookingExpired   = "booking_expired"
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
)

type BookingEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	BookingID     int64     `json:"booking_id"`
	HallID        int64     `json:"hall_id"`
	UserID        int64     `json:"user_id"`
	Status        string    `json:"status"`
	PaymentMode   string    `json:"payment_mode"`
	PaymentStatus string    `json:"payment_status"`
	TotalPrice    float64   `json:"total_price"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		BookingID:     b.ID,
		HallID:        b.HallID,
		UserID:        b.UserID,
		Status:        string(b.Status),
		PaymentMode:   string(b.PaymentMode),
		PaymentStatus: string(b.PaymentStatus),
		TotalPrice:    b.TotalPrice,
		StartDate:     b.Span.StartDate.Format(domain.DateLayout),
		EndDate:       b.Span.EndDate.Format(domain.DateLayout),
		StartTime:     b.Span.StartTime.String(),
		EndTime:       b.Span.EndTime.String(),
		OccurredAt:    at.UTC(),
	}
}

// Key partitions events of one booking together.
func (e BookingEvent) Key() string {
	return "booking-" + itoa(e.BookingID)
}

func DecodeBookingEvent(data []byte) (BookingEvent, error) {
	var event BookingEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
