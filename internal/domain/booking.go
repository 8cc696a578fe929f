package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no_show"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case BookingStatusBooked, BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, s)
}

// Blocking reports whether a booking in this status occupies time.
func (s BookingStatus) Blocking() bool {
	return s == BookingStatusBooked
}

type PaymentMode string

const (
	PaymentModeOnline PaymentMode = "online"
	PaymentModeVenue  PaymentMode = "venue"
)

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch m := PaymentMode(s); m {
	case PaymentModeOnline, PaymentModeVenue:
		return m, nil
	case "":
		return PaymentModeVenue, nil
	}
	return "", fmt.Errorf("%w: unknown payment mode %q", ErrInvalidInput, s)
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(s); st {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusRefunded:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, s)
}

type Booking struct {
	ID            int64
	UserID        int64
	HallID        int64
	Span          Span
	Status        BookingStatus
	PaymentMode   PaymentMode
	PaymentStatus PaymentStatus
	TotalPrice    float64
	// Gateway correlation fields, owned by the payment processor.
	OrderID   string
	PaymentID string
	Signature string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentUpdate is applied to a booking whose payment is still pending.
type PaymentUpdate struct {
	Status    PaymentStatus
	PaymentID string
	Signature string
}
