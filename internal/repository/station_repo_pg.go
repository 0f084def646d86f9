package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	List(ctx context.Context) ([]domain.Station, error)
	IsOperatorAssigned(ctx context.Context, stationID, operatorID string) (bool, error)
}

type PGStationRepository struct {
	db *pgxpool.Pool
}

func NewStationRepository(db *pgxpool.Pool) StationRepository {
	return &PGStationRepository{db: db}
}

func (r *PGStationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, time_zone, total_slots, is_active, created_at, updated_at FROM stations WHERE id=$1`, id)
	var s domain.Station
	if err := row.Scan(&s.ID, &s.Name, &s.TimeZone, &s.TotalSlots, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGStationRepository) List(ctx context.Context) ([]domain.Station, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, time_zone, total_slots, is_active, created_at, updated_at FROM stations WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]domain.Station, 0)
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.TimeZone, &s.TotalSlots, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// IsOperatorAssigned backs the operator-only transitions. Role management
// itself lives in the accounts subsystem; this is only the membership check.
func (r *PGStationRepository) IsOperatorAssigned(ctx context.Context, stationID, operatorID string) (bool, error) {
	var assigned bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM station_operators WHERE station_id=$1 AND operator_id=$2)`, stationID, operatorID).Scan(&assigned)
	return assigned, err
}

var _ StationRepository = (*PGStationRepository)(nil)
