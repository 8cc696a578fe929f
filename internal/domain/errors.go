package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidDuration   = errors.New("invalid booking duration")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrConflict          = errors.New("hall already booked for this time range")
	ErrInvalidSignature  = errors.New("invalid payment signature")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPaymentGateway    = errors.New("payment gateway unavailable")
	ErrAlreadyExists     = errors.New("already exists")
)
