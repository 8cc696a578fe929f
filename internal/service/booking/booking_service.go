package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/kafka"
	"github.com/Domenick1991/hallbooking/internal/logging"
	"github.com/Domenick1991/hallbooking/internal/metrics"
	"github.com/Domenick1991/hallbooking/internal/payment"
	"github.com/Domenick1991/hallbooking/internal/repository"
	"github.com/Domenick1991/hallbooking/internal/service/conflict"
	"github.com/Domenick1991/hallbooking/internal/service/pricing"
	"github.com/rs/zerolog"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, principal domain.Principal, input CreateBookingInput) (*CreateBookingResult, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, principal domain.Principal) ([]domain.Booking, error)
	GetBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type HallReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (payment.Order, error)
	Verify(ctx context.Context, orderID, paymentID, signature string) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type CreateBookingInput struct {
	HallID      int64  `json:"hall_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	PaymentMode string `json:"payment_mode"`
}

// CreateBookingResult carries the gateway order for online bookings.
type CreateBookingResult struct {
	Booking *domain.Booking
	Order   *payment.Order
}

type VerifyPaymentInput struct {
	BookingID int64  `json:"booking_id"`
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	halls              HallReader
	gateway            PaymentGateway
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	currency           string
	pendingHold        time.Duration
	location           *time.Location
	now                func() time.Time
	logger             zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCurrency(currency string) BookingServiceOption {
	return func(s *BookingService) {
		s.currency = currency
	}
}

// WithPendingHold sets how long an unpaid online booking keeps its span.
func WithPendingHold(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.pendingHold = d
	}
}

// WithLocation sets the timezone in which "today" is evaluated.
func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		s.location = loc
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(logger zerolog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	halls HallReader,
	gateway PaymentGateway,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		halls:        halls,
		gateway:      gateway,
		producer:     producer,
		bookingTopic: bookingTopic,
		currency:     "INR",
		pendingHold:  30 * time.Minute,
		location:     time.UTC,
		now:          time.Now,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	service.logger = logging.Category(service.logger, logging.TypeBooking)
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, principal domain.Principal, input CreateBookingInput) (*CreateBookingResult, error) {
	if principal.Role != domain.RoleUser {
		return nil, fmt.Errorf("%w: only users can book halls", domain.ErrForbidden)
	}

	span, mode, err := s.parseInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(span); err != nil {
		return nil, err
	}

	hall, err := s.halls.GetByID(ctx, input.HallID)
	if err != nil {
		return nil, fmt.Errorf("hall %d: %w", input.HallID, err)
	}
	total, err := pricing.Price(hall.RateCard, span)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		UserID:        principal.ID,
		HallID:        hall.ID,
		Span:          span,
		Status:        domain.BookingStatusBooked,
		PaymentMode:   mode,
		PaymentStatus: domain.PaymentStatusPending,
		TotalPrice:    total,
	}

	err = s.bookings.InTx(ctx, func(ctx context.Context, store repository.BookingStore) error {
		taken, err := conflict.NewDetector(store).HasConflict(ctx, hall.ID, span)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrConflict
		}
		return store.Insert(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.IncBookingConflict()
			s.logger.Info().Int64("hall_id", hall.ID).Stringer("span", span).Msg("booking rejected: conflict")
		}
		return nil, err
	}

	result := &CreateBookingResult{Booking: booking}
	if mode == domain.PaymentModeOnline {
		order, err := s.createOrder(ctx, booking)
		if err != nil {
			return nil, err
		}
		result.Order = &order
	}

	metrics.IncBookingCreated(string(mode))
	s.publish(ctx, kafka.EventBookingCreated, booking)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("user_id", principal.ID).
		Int64("hall_id", hall.ID).
		Float64("total_price", total).
		Str("payment_mode", string(mode)).
		Msg("booking created")
	return result, nil
}

// createOrder registers the gateway order. When the gateway fails the booking
// is released so the span does not stay held without a way to pay.
func (s *BookingService) createOrder(ctx context.Context, booking *domain.Booking) (payment.Order, error) {
	order, err := s.gateway.CreateOrder(ctx, pricing.MinorUnits(booking.TotalPrice), s.currency, payment.Receipt(booking.ID))
	if err == nil {
		if err = s.bookings.SetOrderID(ctx, booking.ID, order.ID); err == nil {
			booking.OrderID = order.ID
			return order, nil
		}
	}

	s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("payment order failed, releasing booking")
	releaseErr := s.bookings.InTx(ctx, func(ctx context.Context, store repository.BookingStore) error {
		if _, err := store.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
			return err
		}
		_, err := store.UpdatePayment(ctx, booking.ID, domain.PaymentUpdate{Status: domain.PaymentStatusFailed})
		return err
	})
	if releaseErr != nil {
		s.logger.Error().Err(releaseErr).Int64("booking_id", booking.ID).Msg("release booking")
	}
	return payment.Order{}, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
}

// VerifyPayment applies a gateway callback. Verifying an already successful
// payment is a no-op and does not consult the gateway.
func (s *BookingService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*domain.Booking, error) {
	logger := logging.Category(s.logger, logging.TypePayment).With().Int64("booking_id", input.BookingID).Logger()

	current, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	switch current.PaymentStatus {
	case domain.PaymentStatusSuccess:
		return current, nil
	case domain.PaymentStatusFailed, domain.PaymentStatusRefunded:
		return nil, fmt.Errorf("%w: payment is %s", domain.ErrInvalidTransition, current.PaymentStatus)
	}
	if current.Status != domain.BookingStatusBooked {
		// the span was released (cancelled or expired), so there is nothing left to pay for
		logger.Warn().Str("status", string(current.Status)).Str("payment_id", input.PaymentID).
			Msg("payment callback for a released booking")
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrInvalidTransition, current.Status)
	}
	if current.PaymentMode != domain.PaymentModeOnline {
		return nil, fmt.Errorf("%w: booking is paid at the venue", domain.ErrInvalidTransition)
	}

	ok := input.OrderID != "" && input.OrderID == current.OrderID
	if ok {
		ok, err = s.gateway.Verify(ctx, input.OrderID, input.PaymentID, input.Signature)
		if err != nil {
			logger.Warn().Err(err).Msg("payment verification call failed")
			ok = false
		}
	}

	if !ok {
		metrics.IncPaymentVerification("failed")
		var failed *domain.Booking
		err := s.bookings.InTx(ctx, func(ctx context.Context, store repository.BookingStore) error {
			var err error
			failed, err = store.UpdatePayment(ctx, current.ID, domain.PaymentUpdate{Status: domain.PaymentStatusFailed})
			return err
		})
		if err != nil {
			return nil, err
		}
		s.publish(ctx, kafka.EventPaymentFailed, failed)
		logger.Warn().Str("order_id", input.OrderID).Msg("invalid payment signature")
		return nil, domain.ErrInvalidSignature
	}

	var updated *domain.Booking
	err = s.bookings.InTx(ctx, func(ctx context.Context, store repository.BookingStore) error {
		var err error
		updated, err = store.UpdatePayment(ctx, current.ID, domain.PaymentUpdate{
			Status:    domain.PaymentStatusSuccess,
			PaymentID: input.PaymentID,
			Signature: input.Signature,
		})
		return err
	})
	if errors.Is(err, domain.ErrInvalidTransition) {
		// a concurrent callback may have won
		latest, getErr := s.bookings.GetByID(ctx, current.ID)
		if getErr == nil && latest.PaymentStatus == domain.PaymentStatusSuccess {
			return latest, nil
		}
	}
	if err != nil {
		return nil, err
	}

	metrics.IncPaymentVerification("success")
	s.publish(ctx, kafka.EventPaymentSucceeded, updated)
	logger.Info().Str("payment_id", input.PaymentID).Msg("payment verified")
	return updated, nil
}

// CancelBooking releases the booking's span. Only the booking's user may
// cancel, and only a booking that is not cancelled yet.
func (s *BookingService) CancelBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error) {
	var updated *domain.Booking
	err := s.bookings.InTx(ctx, func(ctx context.Context, store repository.BookingStore) error {
		current, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.UserID != principal.ID || principal.Role != domain.RoleUser {
			return fmt.Errorf("%w: booking %d belongs to another user", domain.ErrForbidden, id)
		}
		if current.Status == domain.BookingStatusCancelled {
			return fmt.Errorf("%w: booking %d is already cancelled", domain.ErrInvalidTransition, id)
		}
		updated, err = store.UpdateStatus(ctx, id, domain.BookingStatusCancelled)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingCancelled()
	s.publish(ctx, kafka.EventBookingCancelled, updated)
	s.logger.Info().Int64("booking_id", id).Int64("user_id", principal.ID).Msg("booking cancelled")
	return updated, nil
}

func (s *BookingService) ListMyBookings(ctx context.Context, principal domain.Principal) ([]domain.Booking, error) {
	if principal.Role != domain.RoleUser {
		return nil, fmt.Errorf("%w: users only", domain.ErrForbidden)
	}
	return s.bookings.ListByUser(ctx, principal.ID)
}

// GetBooking is available to the booking's user and to admins.
func (s *BookingService) GetBooking(ctx context.Context, principal domain.Principal, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && b.UserID != principal.ID {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

// ExpirePendingBookings releases online bookings left unpaid for longer than
// the pending hold.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	deadline := s.now().Add(-s.pendingHold)
	expired, err := s.bookings.ExpirePendingBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for i := range expired {
		s.publish(ctx, kafka.EventBookingExpired, &expired[i])
	}
	if len(expired) > 0 {
		metrics.AddBookingExpired(len(expired))
		s.logger.Info().Int("count", len(expired)).Time("deadline", deadline).Msg("expired pending bookings")
	}
	return expired, nil
}

func (s *BookingService) parseInput(input CreateBookingInput) (domain.Span, domain.PaymentMode, error) {
	startDate, err := domain.ParseDate(input.StartDate)
	if err != nil {
		return domain.Span{}, "", err
	}
	endDate, err := domain.ParseDate(input.EndDate)
	if err != nil {
		return domain.Span{}, "", err
	}
	startTime, err := domain.ParseClock(input.StartTime)
	if err != nil {
		return domain.Span{}, "", err
	}
	endTime, err := domain.ParseClock(input.EndTime)
	if err != nil {
		return domain.Span{}, "", err
	}
	mode, err := domain.ParsePaymentMode(input.PaymentMode)
	if err != nil {
		return domain.Span{}, "", err
	}
	span, err := domain.NewSpan(startDate, endDate, startTime, endTime)
	if err != nil {
		return domain.Span{}, "", err
	}
	return span, mode, nil
}

func (s *BookingService) checkNotPast(span domain.Span) error {
	now := s.now().In(s.location)
	today := domain.DateOf(now)
	if span.StartDate.Before(today) {
		return fmt.Errorf("%w: start date is in the past", domain.ErrInvalidDateRange)
	}
	if span.StartDate.Equal(today) && span.StartTime <= domain.ClockOf(now) {
		return fmt.Errorf("%w: start time has already passed", domain.ErrInvalidDateRange)
	}
	return nil
}

// publish is best-effort: the booking is already committed.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" || booking == nil {
		return
	}
	event := kafka.NewBookingEvent(eventType, booking, s.now())
	if err := s.producer.Publish(ctx, s.bookingTopic, event.Key(), event); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Int64("booking_id", booking.ID).Msg("publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event); err != nil {
			s.logger.Warn().Err(err).Str("event", eventType).Int64("booking_id", booking.ID).Msg("publish notification")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
