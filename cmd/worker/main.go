package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/chargebooking/config"
	"github.com/Domenick1991/chargebooking/internal/cache"
	"github.com/Domenick1991/chargebooking/internal/kafka"
	"github.com/Domenick1991/chargebooking/internal/logger"
	"github.com/Domenick1991/chargebooking/internal/notify"
	"github.com/Domenick1991/chargebooking/internal/qrtoken"
	"github.com/Domenick1991/chargebooking/internal/repository"
	"github.com/Domenick1991/chargebooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The worker does two things: consume booking events and notify session
// owners, and periodically reject bookings left Pending past their window.
func main() {
	log := logger.New("worker")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	stationRepo := repository.NewStationRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		scheduleRepo,
		stationRepo,
		redisCache,
		producer,
		qrtoken.NewIssuer(cfg.Token.Secret, cfg.Token.Lifetime()),
		booking.Policy{
			Horizon:      cfg.Booking.Horizon(),
			ModifyCutoff: cfg.Booking.ModifyCutoff(),
			LockTTL:      cfg.Booking.StationLockTTL(),
			DefaultZone:  cfg.Booking.DefaultZone,
		},
		cfg.Kafka.BookingEventsTopic,
		logger.New("booking"),
	)

	notifier := notify.NewNotifier(logger.New("notify"))
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger.New("consumer"))
	defer consumer.Close()

	go func() {
		err := consumer.ConsumeEvents(ctx, notifier.Notify)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("consumer stopped")
		}
	}()

	ticker := time.NewTicker(time.Duration(cfg.Worker.SweepMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := bookingService.ExpirePendingBookings(ctx)
			if err != nil {
				log.Error().Err(err).Msg("expiry sweep failed")
				continue
			}
			if len(expired) > 0 {
				log.Info().Int("count", len(expired)).Msg("rejected stale pending bookings")
			}
		}
	}
}
