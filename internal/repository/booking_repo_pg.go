package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	OverlapCount(ctx context.Context, stationID string, startUTC, endUTC time.Time, excludeID string) (int, error)
	OwnerOverlapExists(ctx context.Context, ownerID string, startUTC, endUTC time.Time, excludeID string) (bool, error)
	InsertGuarded(ctx context.Context, booking *domain.Booking, maxConcurrent int, lockKey string) error
	UpdateWindowGuarded(ctx context.Context, booking *domain.Booking, maxConcurrent int, lockKey string) error
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, isAuthActive bool) (*domain.Booking, error)
	MarkValidated(ctx context.Context, id string, at time.Time) (bool, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, owner_id, station_id, start_utc, end_utc, status, is_auth_active, qr_token, token_id, token_issued_at, token_expires_at, validated_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.OwnerID, &b.StationID, &b.StartUTC, &b.EndUTC, &b.Status, &b.IsAuthActive,
		&b.QRToken, &b.TokenID, &b.TokenIssuedAt, &b.TokenExpiresAt, &b.ValidatedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

// excludeParam maps "no exclusion" to SQL NULL so the id column type does
// not have to be comparable with an empty string.
func excludeParam(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// OverlapCount counts Pending/Approved bookings whose [start,end) window
// intersects the given one, half-open: start < windowEnd AND end > windowStart.
// excludeID removes the booking's own row when re-checking an update.
func (r *PGBookingRepository) OverlapCount(ctx context.Context, stationID string, startUTC, endUTC time.Time, excludeID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM bookings
		WHERE station_id = $1
		  AND status IN ('PENDING', 'APPROVED')
		  AND start_utc < $3 AND end_utc > $2
		  AND ($4::text IS NULL OR id <> $4)`,
		stationID, startUTC, endUTC, excludeParam(excludeID)).Scan(&count)
	return count, err
}

func (r *PGBookingRepository) OwnerOverlapExists(ctx context.Context, ownerID string, startUTC, endUTC time.Time, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE owner_id = $1
			  AND status NOT IN ('CANCELLED', 'REJECTED')
			  AND start_utc < $3 AND end_utc > $2
			  AND ($4::text IS NULL OR id <> $4)
		)`,
		ownerID, startUTC, endUTC, excludeParam(excludeID)).Scan(&exists)
	return exists, err
}

// InsertGuarded inserts a Pending booking inside a transaction that holds a
// station+day advisory lock and recounts the overlapping window. The lock
// serializes concurrent writers for the same station day; if the recount
// still shows the window full, the row is persisted as Rejected and
// ErrCapacityRace is returned, so an overshoot can never reach the store as
// an active booking.
func (r *PGBookingRepository) InsertGuarded(ctx context.Context, booking *domain.Booking, maxConcurrent int, lockKey string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return err
	}

	var count int
	if err := tx.QueryRow(ctx, `
		SELECT count(*) FROM bookings
		WHERE station_id = $1
		  AND status IN ('PENDING', 'APPROVED')
		  AND start_utc < $3 AND end_utc > $2`,
		booking.StationID, booking.StartUTC, booking.EndUTC).Scan(&count); err != nil {
		return err
	}

	status := domain.BookingStatusPending
	lost := count >= maxConcurrent
	if lost {
		status = domain.BookingStatusRejected
	}
	booking.Status = status

	if err := tx.QueryRow(ctx, `
		INSERT INTO bookings (id, owner_id, station_id, start_utc, end_utc, status, is_auth_active, qr_token, token_id, token_issued_at, token_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		booking.ID, booking.OwnerID, booking.StationID, booking.StartUTC, booking.EndUTC, status,
		booking.QRToken, booking.TokenID, booking.TokenIssuedAt, booking.TokenExpiresAt).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if lost {
		return domain.ErrCapacityRace
	}
	return nil
}

// UpdateWindowGuarded rewrites a booking's window and token fields under the
// same advisory-lock recount as InsertGuarded, excluding the booking's own
// row from the count. On a detected race the row keeps its old window and
// ErrCapacityRace is returned.
func (r *PGBookingRepository) UpdateWindowGuarded(ctx context.Context, booking *domain.Booking, maxConcurrent int, lockKey string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return err
	}

	var count int
	if err := tx.QueryRow(ctx, `
		SELECT count(*) FROM bookings
		WHERE station_id = $1
		  AND status IN ('PENDING', 'APPROVED')
		  AND start_utc < $3 AND end_utc > $2
		  AND id <> $4`,
		booking.StationID, booking.StartUTC, booking.EndUTC, booking.ID).Scan(&count); err != nil {
		return err
	}
	if count >= maxConcurrent {
		return domain.ErrCapacityRace
	}

	res, err := tx.Exec(ctx, `
		UPDATE bookings
		SET start_utc=$2, end_utc=$3, qr_token=$4, token_id=$5, token_issued_at=$6, token_expires_at=$7, updated_at=now()
		WHERE id=$1`,
		booking.ID, booking.StartUTC, booking.EndUTC,
		booking.QRToken, booking.TokenID, booking.TokenIssuedAt, booking.TokenExpiresAt)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, isAuthActive bool) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE bookings SET status=$2, is_auth_active=$3, updated_at=now()
		WHERE id=$1
		RETURNING `+bookingColumns, id, status, isAuthActive)
	return scanBooking(row)
}

// MarkValidated is the single-use gate: a compare-and-set on validated_at.
// Returns false without error when another scan already consumed the token.
func (r *PGBookingRepository) MarkValidated(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE bookings SET validated_at=$2, is_auth_active=false, updated_at=now()
		WHERE id=$1 AND validated_at IS NULL`, id, at)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

// ExpirePendingBefore rejects bookings still Pending after their window has
// already ended. Used by the sweep worker.
func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE bookings SET status=$1, is_auth_active=false, updated_at=now()
		WHERE status=$2 AND end_utc <= $3
		RETURNING `+bookingColumns,
		domain.BookingStatusRejected, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
