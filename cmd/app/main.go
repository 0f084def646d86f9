package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/chargebooking/config"
	"github.com/Domenick1991/chargebooking/internal/bootstrap"
	"github.com/Domenick1991/chargebooking/internal/cache"
	"github.com/Domenick1991/chargebooking/internal/kafka"
	"github.com/Domenick1991/chargebooking/internal/logger"
	"github.com/Domenick1991/chargebooking/internal/qrtoken"
	"github.com/Domenick1991/chargebooking/internal/repository"
	"github.com/Domenick1991/chargebooking/internal/service/availability"
	"github.com/Domenick1991/chargebooking/internal/service/booking"
	"github.com/Domenick1991/chargebooking/internal/service/scan"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log := logger.New("app")

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

	issuer := qrtoken.NewIssuer(cfg.Token.Secret, cfg.Token.Lifetime())
	verifier := qrtoken.NewVerifier(cfg.Token.Secret)

	bookingService := booking.NewBookingService(
		bookingRepo,
		scheduleRepo,
		stationRepo,
		redisCache,
		producer,
		issuer,
		booking.Policy{
			Horizon:      cfg.Booking.Horizon(),
			ModifyCutoff: cfg.Booking.ModifyCutoff(),
			LockTTL:      cfg.Booking.StationLockTTL(),
			DefaultZone:  cfg.Booking.DefaultZone,
		},
		cfg.Kafka.BookingEventsTopic,
		logger.New("booking"),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	availabilityService := availability.NewService(scheduleRepo, stationRepo, bookingRepo)

	scanService := scan.NewScanService(
		verifier,
		bookingRepo,
		stationRepo,
		producer,
		scan.Policy{
			EarlyGrace: cfg.Booking.EarlyGrace(),
			LateGrace:  cfg.Booking.LateGrace(),
		},
		cfg.Kafka.BookingEventsTopic,
		logger.New("scan"),
	)

	handlers := bootstrap.Handlers{
		Bookings:     bookingService,
		Availability: availabilityService,
		Scans:        scanService,
		Stations:     stationRepo,
		Schedules:    scheduleRepo,
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
