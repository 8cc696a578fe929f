package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepository aggregates revenue over successfully paid bookings.
type AnalyticsRepository interface {
	TotalRevenue(ctx context.Context, adminID int64) (float64, error)
	MonthlyRevenue(ctx context.Context, adminID int64, year int) ([]domain.MonthRevenue, error)
	RevenuePerHall(ctx context.Context, adminID int64) ([]domain.HallRevenue, error)
	BookingCountPerHall(ctx context.Context, adminID int64) ([]domain.HallBookingCount, error)
	PaymentStats(ctx context.Context, adminID int64) (domain.PaymentStats, error)
	AdminStats(ctx context.Context, adminID int64, today time.Time) (domain.AdminStats, error)
}

type PGAnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) AnalyticsRepository {
	return &PGAnalyticsRepository{db: db}
}

// Every aggregate is restricted to halls owned by adminID.

func (r *PGAnalyticsRepository) TotalRevenue(ctx context.Context, adminID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(b.total_price), 0)::float8
		FROM bookings b JOIN halls h ON h.id = b.hall_id
		WHERE h.admin_id=$1 AND b.payment_status='success'`, adminID).Scan(&total)
	return total, err
}

func (r *PGAnalyticsRepository) MonthlyRevenue(ctx context.Context, adminID int64, year int) ([]domain.MonthRevenue, error) {
	rows, err := r.db.Query(ctx, `SELECT EXTRACT(MONTH FROM b.start_date)::int AS month, SUM(b.total_price)::float8
		FROM bookings b JOIN halls h ON h.id = b.hall_id
		WHERE h.admin_id=$1 AND EXTRACT(YEAR FROM b.start_date)=$2 AND b.payment_status='success'
		GROUP BY month ORDER BY month`, adminID, year)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MonthRevenue, error) {
		var m domain.MonthRevenue
		err := row.Scan(&m.Month, &m.Revenue)
		return m, err
	})
}

func (r *PGAnalyticsRepository) RevenuePerHall(ctx context.Context, adminID int64) ([]domain.HallRevenue, error) {
	rows, err := r.db.Query(ctx, `SELECT h.id, h.name, SUM(b.total_price)::float8 AS revenue
		FROM halls h JOIN bookings b ON b.hall_id = h.id
		WHERE h.admin_id=$1 AND b.payment_status='success'
		GROUP BY h.id, h.name ORDER BY revenue DESC`, adminID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HallRevenue, error) {
		var hr domain.HallRevenue
		err := row.Scan(&hr.HallID, &hr.HallName, &hr.Revenue)
		return hr, err
	})
}

func (r *PGAnalyticsRepository) BookingCountPerHall(ctx context.Context, adminID int64) ([]domain.HallBookingCount, error) {
	rows, err := r.db.Query(ctx, `SELECT h.id, h.name, COUNT(b.id) AS booking_count
		FROM halls h JOIN bookings b ON b.hall_id = h.id
		WHERE h.admin_id=$1
		GROUP BY h.id, h.name ORDER BY booking_count DESC`, adminID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HallBookingCount, error) {
		var c domain.HallBookingCount
		err := row.Scan(&c.HallID, &c.HallName, &c.BookingCount)
		return c, err
	})
}

func (r *PGAnalyticsRepository) PaymentStats(ctx context.Context, adminID int64) (domain.PaymentStats, error) {
	var s domain.PaymentStats
	err := r.db.QueryRow(ctx, `SELECT
			COUNT(*) FILTER (WHERE b.payment_mode='online' AND b.payment_status='success'),
			COUNT(*) FILTER (WHERE b.payment_mode='venue' AND b.payment_status='pending'),
			COUNT(*) FILTER (WHERE b.payment_mode='online' AND b.payment_status='failed')
		FROM bookings b JOIN halls h ON h.id = b.hall_id
		WHERE h.admin_id=$1`, adminID).
		Scan(&s.OnlinePayments, &s.CashPayments, &s.FailedOnlinePayments)
	return s, err
}

func (r *PGAnalyticsRepository) AdminStats(ctx context.Context, adminID int64, today time.Time) (domain.AdminStats, error) {
	var s domain.AdminStats
	err := r.db.QueryRow(ctx, `SELECT
			(SELECT COUNT(*) FROM halls WHERE admin_id=$1 AND NOT deleted),
			COUNT(b.id),
			COUNT(b.id) FILTER (WHERE b.start_date <= $2::date AND b.end_date >= $2::date)
		FROM bookings b JOIN halls h ON h.id = b.hall_id
		WHERE h.admin_id=$1`, adminID, today).
		Scan(&s.TotalHalls, &s.TotalBookings, &s.TodayBookings)
	return s, err
}

var _ AnalyticsRepository = (*PGAnalyticsRepository)(nil)
