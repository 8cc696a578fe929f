package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/logging"
	"github.com/Domenick1991/hallbooking/internal/repository"
	"github.com/Domenick1991/hallbooking/internal/service/pricing"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type AnalyticsUseCase interface {
	TotalRevenue(ctx context.Context, admin domain.Principal) (float64, error)
	MonthlyRevenue(ctx context.Context, admin domain.Principal, year int) ([]domain.MonthRevenue, error)
	RevenuePerHall(ctx context.Context, admin domain.Principal) ([]domain.HallRevenue, error)
	BookingCountPerHall(ctx context.Context, admin domain.Principal) ([]domain.HallBookingCount, error)
	PaymentStats(ctx context.Context, admin domain.Principal) (domain.PaymentStats, error)
	AdminStats(ctx context.Context, admin domain.Principal) (domain.AdminStats, error)
}

// AnalyticsService reports over the halls owned by the calling admin.
type AnalyticsService struct {
	repo     repository.AnalyticsRepository
	logger   zerolog.Logger
	location *time.Location
	now      func() time.Time
}

type AnalyticsServiceOption func(*AnalyticsService)

// WithLocation sets the timezone that decides which calendar day is today.
func WithLocation(loc *time.Location) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.location = loc
	}
}

func WithClock(now func() time.Time) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.now = now
	}
}

func NewAnalyticsService(repo repository.AnalyticsRepository, logger zerolog.Logger, opts ...AnalyticsServiceOption) *AnalyticsService {
	s := &AnalyticsService{
		repo:     repo,
		logger:   logging.Category(logger, logging.TypeAdmin),
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnalyticsService) TotalRevenue(ctx context.Context, admin domain.Principal) (float64, error) {
	if err := requireAdmin(admin); err != nil {
		return 0, err
	}
	total, err := s.repo.TotalRevenue(ctx, admin.ID)
	if err != nil {
		return 0, fmt.Errorf("total revenue: %w", err)
	}
	total = pricing.Round2(total)
	s.logger.Info().Int64("admin_id", admin.ID).Float64("total", total).Msg("admin checked total revenue")
	return total, nil
}

// MonthlyRevenue returns only the months of year that have revenue.
func (s *AnalyticsService) MonthlyRevenue(ctx context.Context, admin domain.Principal, year int) ([]domain.MonthRevenue, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", domain.ErrInvalidInput, year)
	}
	months, err := s.repo.MonthlyRevenue(ctx, admin.ID, year)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	months = lo.Map(months, func(m domain.MonthRevenue, _ int) domain.MonthRevenue {
		m.Revenue = pricing.Round2(m.Revenue)
		return m
	})
	s.logger.Info().Int64("admin_id", admin.ID).Int("year", year).Msg("admin checked monthly revenue")
	return months, nil
}

func (s *AnalyticsService) RevenuePerHall(ctx context.Context, admin domain.Principal) ([]domain.HallRevenue, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	halls, err := s.repo.RevenuePerHall(ctx, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("revenue per hall: %w", err)
	}
	halls = lo.Map(halls, func(h domain.HallRevenue, _ int) domain.HallRevenue {
		h.Revenue = pricing.Round2(h.Revenue)
		return h
	})
	s.logger.Info().Int64("admin_id", admin.ID).Msg("admin checked revenue per hall")
	return halls, nil
}

func (s *AnalyticsService) BookingCountPerHall(ctx context.Context, admin domain.Principal) ([]domain.HallBookingCount, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	counts, err := s.repo.BookingCountPerHall(ctx, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("booking count per hall: %w", err)
	}
	s.logger.Info().Int64("admin_id", admin.ID).Msg("admin checked booking count per hall")
	return counts, nil
}

func (s *AnalyticsService) PaymentStats(ctx context.Context, admin domain.Principal) (domain.PaymentStats, error) {
	if err := requireAdmin(admin); err != nil {
		return domain.PaymentStats{}, err
	}
	stats, err := s.repo.PaymentStats(ctx, admin.ID)
	if err != nil {
		return domain.PaymentStats{}, fmt.Errorf("payment stats: %w", err)
	}
	s.logger.Info().Int64("admin_id", admin.ID).Msg("admin checked payment stats")
	return stats, nil
}

// AdminStats counts the admin's live halls, all bookings on them and the
// bookings whose date range contains today.
func (s *AnalyticsService) AdminStats(ctx context.Context, admin domain.Principal) (domain.AdminStats, error) {
	if err := requireAdmin(admin); err != nil {
		return domain.AdminStats{}, err
	}
	today := domain.DateOf(s.now().In(s.location))
	stats, err := s.repo.AdminStats(ctx, admin.ID, today)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("admin stats: %w", err)
	}
	s.logger.Info().Int64("admin_id", admin.ID).Str("today", today.Format(domain.DateLayout)).Msg("admin checked dashboard stats")
	return stats, nil
}

func requireAdmin(p domain.Principal) error {
	if !p.IsAdmin() {
		return fmt.Errorf("%w: admins only", domain.ErrForbidden)
	}
	return nil
}

var _ AnalyticsUseCase = (*AnalyticsService)(nil)
