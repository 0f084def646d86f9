package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/chargebooking/api"
	"github.com/Domenick1991/chargebooking/config"
	"github.com/Domenick1991/chargebooking/internal/repository"
	"github.com/Domenick1991/chargebooking/internal/service/availability"
	"github.com/Domenick1991/chargebooking/internal/service/booking"
	"github.com/Domenick1991/chargebooking/internal/service/scan"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Bookings     booking.BookingUseCase
	Availability availability.Calculator
	Scans        scan.ScanUseCase
	Stations     repository.StationRepository
	Schedules    repository.ScheduleRepository
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	router := newRouter(h)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	stationGroup := router.Group("/stations")
	api.NewStationHandler(h.Stations, h.Schedules).Register(stationGroup)
	api.NewAvailabilityHandler(h.Availability).Register(stationGroup)

	api.NewBookingHandler(h.Bookings).Register(router.Group("/bookings"))
	api.NewScanHandler(h.Scans).Register(router.Group("/scan"))

	return router
}
