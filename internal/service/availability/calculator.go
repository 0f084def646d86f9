package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/Domenick1991/chargebooking/internal/repository"
	"github.com/Domenick1991/chargebooking/internal/timeutil"
)

// Slot is a candidate charging window for availability display. It is never
// persisted; bookings reference instants, not slots.
type Slot struct {
	StartLocal time.Time `json:"start_local"`
	EndLocal   time.Time `json:"end_local"`
	StartUTC   time.Time `json:"start_utc"`
	EndUTC     time.Time `json:"end_utc"`
	Available  int       `json:"available"`
}

type Calculator interface {
	SlotsForDay(ctx context.Context, stationID string, day time.Time, granularityMinutes int) ([]Slot, error)
}

type Service struct {
	schedules repository.ScheduleRepository
	stations  repository.StationRepository
	bookings  repository.BookingRepository
}

func NewService(schedules repository.ScheduleRepository, stations repository.StationRepository, bookings repository.BookingRepository) *Service {
	return &Service{schedules: schedules, stations: stations, bookings: bookings}
}

// SlotsForDay derives the day's discrete availability from the schedule and
// the live booking set. No state is cached between calls; every call
// recomputes from the stores, so the listing can never be stale.
//
// The open→close window is walked in granularity steps; a trailing window
// shorter than the granularity is dropped, never truncated. available is
// maxConcurrent minus the count of Pending/Approved bookings overlapping the
// window under half-open interval semantics, floored at zero.
func (s *Service) SlotsForDay(ctx context.Context, stationID string, day time.Time, granularityMinutes int) ([]Slot, error) {
	if granularityMinutes <= 0 {
		return nil, fmt.Errorf("%w: granularity must be positive, got %d", domain.ErrConfiguration, granularityMinutes)
	}

	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.schedules.GetByStationAndDay(ctx, stationID, timeutil.DayStart(day))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no schedule for station %s on %s: %w", stationID, day.Format("2006-01-02"), domain.ErrNotFound)
		}
		return nil, err
	}
	if schedule.OpenMinutes >= schedule.CloseMinutes {
		return nil, fmt.Errorf("%w: open=%d close=%d", domain.ErrBadSchedule, schedule.OpenMinutes, schedule.CloseMinutes)
	}

	loc, err := time.LoadLocation(station.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: station %s zone %q: %v", domain.ErrConfiguration, stationID, station.TimeZone, err)
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	granularity := time.Duration(granularityMinutes) * time.Minute
	open := midnight.Add(time.Duration(schedule.OpenMinutes) * time.Minute)
	close := midnight.Add(time.Duration(schedule.CloseMinutes) * time.Minute)

	slots := make([]Slot, 0)
	for start := open; !start.Add(granularity).After(close); start = start.Add(granularity) {
		end := start.Add(granularity)
		startUTC := start.UTC()
		endUTC := end.UTC()

		count, err := s.bookings.OverlapCount(ctx, stationID, startUTC, endUTC, "")
		if err != nil {
			return nil, err
		}

		available := schedule.MaxConcurrent - count
		if available < 0 {
			available = 0
		}
		slots = append(slots, Slot{
			StartLocal: start,
			EndLocal:   end,
			StartUTC:   startUTC,
			EndUTC:     endUTC,
			Available:  available,
		})
	}
	return slots, nil
}

var _ Calculator = (*Service)(nil)
