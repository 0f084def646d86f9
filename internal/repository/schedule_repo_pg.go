package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository interface {
	GetByStationAndDay(ctx context.Context, stationID string, day time.Time) (*domain.StationSchedule, error)
	Range(ctx context.Context, stationID string, from, to time.Time) ([]domain.StationSchedule, error)
	Upsert(ctx context.Context, schedule *domain.StationSchedule) error
}

type PGScheduleRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &PGScheduleRepository{db: db}
}

const scheduleColumns = `station_id, day, open_minutes, close_minutes, max_concurrent, created_at, updated_at`

func (r *PGScheduleRepository) GetByStationAndDay(ctx context.Context, stationID string, day time.Time) (*domain.StationSchedule, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM station_schedules WHERE station_id=$1 AND day=$2`, stationID, day)
	var s domain.StationSchedule
	if err := row.Scan(&s.StationID, &s.Day, &s.OpenMinutes, &s.CloseMinutes, &s.MaxConcurrent, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGScheduleRepository) Range(ctx context.Context, stationID string, from, to time.Time) ([]domain.StationSchedule, error) {
	rows, err := r.db.Query(ctx, `SELECT `+scheduleColumns+` FROM station_schedules WHERE station_id=$1 AND day BETWEEN $2 AND $3 ORDER BY day`, stationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]domain.StationSchedule, 0)
	for rows.Next() {
		var s domain.StationSchedule
		if err := rows.Scan(&s.StationID, &s.Day, &s.OpenMinutes, &s.CloseMinutes, &s.MaxConcurrent, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Upsert writes a day schedule after validating the window shape and the
// capacity ceiling: max_concurrent may not exceed the station's total
// physical slots. Existing bookings are not touched by a schedule edit.
func (r *PGScheduleRepository) Upsert(ctx context.Context, schedule *domain.StationSchedule) error {
	if schedule.OpenMinutes < 0 || schedule.CloseMinutes > 1440 || schedule.OpenMinutes >= schedule.CloseMinutes {
		return fmt.Errorf("%w: open=%d close=%d", domain.ErrBadSchedule, schedule.OpenMinutes, schedule.CloseMinutes)
	}
	if schedule.MaxConcurrent <= 0 {
		return fmt.Errorf("%w: max_concurrent=%d", domain.ErrBadSchedule, schedule.MaxConcurrent)
	}

	var totalSlots int
	if err := r.db.QueryRow(ctx, `SELECT total_slots FROM stations WHERE id=$1`, schedule.StationID).Scan(&totalSlots); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if schedule.MaxConcurrent > totalSlots {
		return fmt.Errorf("%w: max_concurrent=%d exceeds station capacity %d", domain.ErrBadSchedule, schedule.MaxConcurrent, totalSlots)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO station_schedules (station_id, day, open_minutes, close_minutes, max_concurrent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (station_id, day) DO UPDATE
		SET open_minutes=$3, close_minutes=$4, max_concurrent=$5, updated_at=now()
		RETURNING created_at, updated_at`,
		schedule.StationID, schedule.Day, schedule.OpenMinutes, schedule.CloseMinutes, schedule.MaxConcurrent)
	return row.Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
}

var _ ScheduleRepository = (*PGScheduleRepository)(nil)
