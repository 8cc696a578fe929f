package worker

import (
	"context"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/rs/zerolog"
)

type Expirer interface {
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

// Sweeper periodically releases unpaid online bookings.
type Sweeper struct {
	expirer  Expirer
	interval time.Duration
	logger   zerolog.Logger
}

func NewSweeper(expirer Expirer, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		logger:   logger.With().Str("component", "sweeper").Logger(),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.expirer.ExpirePendingBookings(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("expire bookings")
		}
		return
	}
	if len(expired) > 0 {
		s.logger.Info().Int("count", len(expired)).Msg("expired bookings")
	}
}
