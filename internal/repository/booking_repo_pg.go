package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingStore is the set of booking operations available inside a
// transaction.
type BookingStore interface {
	ListBlocking(ctx context.Context, hallID int64, from, to time.Time) ([]domain.Booking, error)
	Insert(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	SetOrderID(ctx context.Context, id int64, orderID string) error
	UpdatePayment(ctx context.Context, id int64, update domain.PaymentUpdate) (*domain.Booking, error)
}

type BookingRepository interface {
	BookingStore
	// InTx runs fn in a serializable transaction, retrying on serialization
	// failures. fn must not have side effects outside store.
	InTx(ctx context.Context, fn func(ctx context.Context, store BookingStore) error) error
	ListBlockingAll(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	pgBookingStore
	tx txRunner
}

type BookingRepositoryOption func(*PGBookingRepository)

func WithMaxTxAttempts(n int) BookingRepositoryOption {
	return func(r *PGBookingRepository) {
		r.tx.maxAttempts = n
	}
}

func WithRetryHook(hook RetryHook) BookingRepositoryOption {
	return func(r *PGBookingRepository) {
		r.tx.onRetry = hook
	}
}

func NewBookingRepository(db *pgxpool.Pool, opts ...BookingRepositoryOption) BookingRepository {
	r := &PGBookingRepository{
		pgBookingStore: pgBookingStore{q: db},
		tx:             txRunner{db: db, maxAttempts: 5},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PGBookingRepository) InTx(ctx context.Context, fn func(ctx context.Context, store BookingStore) error) error {
	return r.tx.run(ctx, func(tx pgx.Tx) error {
		return fn(ctx, pgBookingStore{q: tx})
	})
}

func (r *PGBookingRepository) ListBlockingAll(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings b
		JOIN halls h ON h.id = b.hall_id AND NOT h.deleted
		WHERE b.status = 'booked' AND b.start_date <= $2 AND b.end_date >= $1
		ORDER BY b.hall_id, b.start_date, b.start_time`, from, to)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.user_id=$1 ORDER BY b.start_date DESC, b.start_time DESC`, userID)
}

// ExpirePendingBefore releases online bookings whose payment is still pending
// and that were created at or before deadline.
func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	return r.query(ctx, `UPDATE bookings b SET status='cancelled', payment_status='failed', updated_at=now()
		WHERE b.status='booked' AND b.payment_mode='online' AND b.payment_status='pending' AND b.created_at <= $1
		RETURNING `+bookingColumns, deadline)
}

type pgBookingStore struct {
	q querier
}

const bookingColumns = `b.id, b.user_id, b.hall_id, b.start_date, b.end_date, b.start_time, b.end_time,
	b.status, b.payment_mode, b.payment_status, b.total_price,
	COALESCE(b.order_id, ''), COALESCE(b.payment_id, ''), COALESCE(b.signature, ''),
	b.created_at, b.updated_at`

func (s pgBookingStore) ListBlocking(ctx context.Context, hallID int64, from, to time.Time) ([]domain.Booking, error) {
	return s.query(ctx, `SELECT `+bookingColumns+` FROM bookings b
		WHERE b.hall_id=$1 AND b.status='booked' AND b.start_date <= $3 AND b.end_date >= $2
		ORDER BY b.start_date, b.start_time`, hallID, from, to)
}

func (s pgBookingStore) Insert(ctx context.Context, b *domain.Booking) error {
	err := s.q.QueryRow(ctx, `INSERT INTO bookings (user_id, hall_id, start_date, end_date, start_time, end_time,
			status, payment_mode, payment_status, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		b.UserID, b.HallID, b.Span.StartDate, b.Span.EndDate, toPGTime(b.Span.StartTime), toPGTime(b.Span.EndTime),
		string(b.Status), string(b.PaymentMode), string(b.PaymentStatus), b.TotalPrice).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", mapError(err))
	}
	return nil
}

func (s pgBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := s.q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (s pgBookingStore) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	row := s.q.QueryRow(ctx, `UPDATE bookings b SET status=$2, updated_at=now() WHERE b.id=$1 RETURNING `+bookingColumns,
		id, string(status))
	b, err := scanBooking(row)
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (s pgBookingStore) SetOrderID(ctx context.Context, id int64, orderID string) error {
	cmd, err := s.q.Exec(ctx, `UPDATE bookings SET order_id=$2, updated_at=now() WHERE id=$1`, id, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePayment only applies to bookings whose payment is still pending.
// A payment can only succeed while the booking still holds its span.
func (s pgBookingStore) UpdatePayment(ctx context.Context, id int64, update domain.PaymentUpdate) (*domain.Booking, error) {
	row := s.q.QueryRow(ctx, `UPDATE bookings b
		SET payment_status=$2, payment_id=COALESCE(NULLIF($3, ''), b.payment_id),
			signature=COALESCE(NULLIF($4, ''), b.signature), updated_at=now()
		WHERE b.id=$1 AND b.payment_status='pending' AND (b.status='booked' OR $2 <> 'success')
		RETURNING `+bookingColumns,
		id, string(update.Status), update.PaymentID, update.Signature)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: payment of booking %d cannot become %s", domain.ErrInvalidTransition, id, update.Status)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s pgBookingStore) query(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b                                 domain.Booking
		startTime, endTime                pgtype.Time
		status, paymentMode, paymentState string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.HallID, &b.Span.StartDate, &b.Span.EndDate, &startTime, &endTime,
		&status, &paymentMode, &paymentState, &b.TotalPrice,
		&b.OrderID, &b.PaymentID, &b.Signature, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if b.Status, err = domain.ParseBookingStatus(status); err != nil {
		return nil, err
	}
	if b.PaymentMode, err = domain.ParsePaymentMode(paymentMode); err != nil {
		return nil, err
	}
	if b.PaymentStatus, err = domain.ParsePaymentStatus(paymentState); err != nil {
		return nil, err
	}

	b.Span.StartDate = domain.DateOf(b.Span.StartDate)
	b.Span.EndDate = domain.DateOf(b.Span.EndDate)
	b.Span.StartTime = fromPGTime(startTime)
	b.Span.EndTime = fromPGTime(endTime)
	return &b, nil
}

func toPGTime(c domain.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: c.Duration().Microseconds(), Valid: true}
}

func fromPGTime(t pgtype.Time) domain.Clock {
	return domain.Clock(t.Microseconds / int64(time.Minute/time.Microsecond))
}

var _ BookingRepository = (*PGBookingRepository)(nil)
