package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/hallbooking/api"
	"github.com/Domenick1991/hallbooking/config"
	"github.com/Domenick1991/hallbooking/internal/auth"
	"github.com/Domenick1991/hallbooking/internal/bootstrap"
	"github.com/Domenick1991/hallbooking/internal/cache"
	"github.com/Domenick1991/hallbooking/internal/kafka"
	"github.com/Domenick1991/hallbooking/internal/logging"
	"github.com/Domenick1991/hallbooking/internal/metrics"
	"github.com/Domenick1991/hallbooking/internal/payment"
	"github.com/Domenick1991/hallbooking/internal/repository"
	"github.com/Domenick1991/hallbooking/internal/service/amenities"
	"github.com/Domenick1991/hallbooking/internal/service/analytics"
	"github.com/Domenick1991/hallbooking/internal/service/availability"
	"github.com/Domenick1991/hallbooking/internal/service/booking"
	"github.com/Domenick1991/hallbooking/internal/service/halls"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("app stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	metrics.Register()

	hallRepo := repository.NewHallRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool,
		repository.WithMaxTxAttempts(cfg.Database.MaxTxAttempts),
		repository.WithRetryHook(metrics.IncTxRetry),
	)
	analyticsRepo := repository.NewAnalyticsRepository(pool)
	amenityRepo := repository.NewAmenityRepository(pool)

	// the client reconnects on its own; until then every cache call is a miss
	redisCache := cache.NewRedisCache(cfg.Redis, cfg.HallCacheTTL())
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, serving halls from postgres")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("kafka unavailable, booking events will be dropped")
	}

	gateway := payment.NewClient(cfg.Payment, cfg.PaymentTimeout())

	hallService := halls.NewHallService(hallRepo, halls.WithCache(redisCache), halls.WithLogger(logger))
	projector := availability.NewProjector(bookingRepo, hallRepo)
	bookingService := booking.NewBookingService(bookingRepo, hallRepo, gateway, producer, cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCurrency(cfg.Payment.Currency),
		booking.WithPendingHold(cfg.PendingHold()),
		booking.WithLocation(loc),
		booking.WithLogger(logger),
	)
	analyticsService := analytics.NewAnalyticsService(analyticsRepo, logger, analytics.WithLocation(loc))

	handlers := bootstrap.Handlers{
		Halls:        api.NewHallHandler(hallService),
		Availability: api.NewAvailabilityHandler(projector),
		Bookings:     api.NewBookingHandler(bookingService, gateway.KeyID()),
		Analytics:    api.NewAnalyticsHandler(analyticsService),
		Amenities:    api.NewAmenityHandler(amenities.NewAmenityService(amenityRepo, hallRepo, logger)),
	}

	return bootstrap.Run(ctx, cfg, logger, auth.NewVerifier(cfg.Auth.JWTSecret), handlers, pool.Ping)
}
