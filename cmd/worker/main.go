package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/hallbooking/config"
	"github.com/Domenick1991/hallbooking/internal/email"
	"github.com/Domenick1991/hallbooking/internal/kafka"
	"github.com/Domenick1991/hallbooking/internal/logging"
	"github.com/Domenick1991/hallbooking/internal/metrics"
	"github.com/Domenick1991/hallbooking/internal/payment"
	"github.com/Domenick1991/hallbooking/internal/repository"
	"github.com/Domenick1991/hallbooking/internal/service/booking"
	"github.com/Domenick1991/hallbooking/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
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
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
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

	metrics.Register()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool,
		repository.WithMaxTxAttempts(cfg.Database.MaxTxAttempts),
		repository.WithRetryHook(metrics.IncTxRetry),
	)
	bookingService := booking.NewBookingService(
		bookingRepo,
		repository.NewHallRepository(pool),
		payment.NewClient(cfg.Payment, cfg.PaymentTimeout()),
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPendingHold(cfg.PendingHold()),
		booking.WithLocation(loc),
		booking.WithLogger(logger),
	)

	sender := email.NewSender(logger)
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Consume(gctx, kafka.BookingEventHandler(logger, sender.Send))
	})
	g.Go(func() error {
		return worker.NewSweeper(bookingService, cfg.SweepInterval(), logger).Run(gctx)
	})

	logger.Info().Str("topic", cfg.Kafka.NotificationsTopic).Dur("sweep_interval", cfg.SweepInterval()).Msg("worker started")
	return g.Wait()
}
