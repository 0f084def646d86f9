package scan

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/Domenick1991/chargebooking/internal/kafka"
	"github.com/Domenick1991/chargebooking/internal/qrtoken"
	"github.com/Domenick1991/chargebooking/internal/repository"
	"github.com/Domenick1991/chargebooking/internal/timeutil"
	"github.com/rs/zerolog"
)

type ScanUseCase interface {
	Scan(ctx context.Context, token string) (*domain.Booking, error)
}

type Verifier interface {
	Verify(tokenStr string) (*qrtoken.Claims, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Policy carries the validation grace windows: how early before the session
// start and how late after its end a scan still passes.
type Policy struct {
	EarlyGrace time.Duration
	LateGrace  time.Duration
}

type ScanService struct {
	verifier Verifier
	bookings repository.BookingRepository
	stations repository.StationRepository
	producer Producer
	policy   Policy
	topic    string

	log zerolog.Logger
	now func() time.Time
}

func NewScanService(
	verifier Verifier,
	bookings repository.BookingRepository,
	stations repository.StationRepository,
	producer Producer,
	policy Policy,
	topic string,
	log zerolog.Logger,
) *ScanService {
	return &ScanService{
		verifier: verifier,
		bookings: bookings,
		stations: stations,
		producer: producer,
		policy:   policy,
		topic:    topic,
		log:      log,
		now:      time.Now,
	}
}

// Scan runs the full validation chain for a presented QR code, short-
// circuiting on the first failure: signature/expiry, claim completeness,
// booking existence, approval state, claim/record consistency, local-time
// grace window, and finally the single-use compare-and-set. The CAS is a
// second validation layer: two near-simultaneous scans of the same valid
// code race on validated_at, and the loser gets AlreadyUsed.
func (s *ScanService) Scan(ctx context.Context, token string) (*domain.Booking, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, domain.ScanFailure(domain.ScanNotFound)
	}

	if booking.Status != domain.BookingStatusApproved {
		return nil, domain.ScanFailure(domain.ScanNotApproved)
	}
	if !booking.IsAuthActive {
		return nil, domain.ScanFailure(domain.ScanInactive)
	}

	if !strings.EqualFold(claims.StationID, booking.StationID) || !strings.EqualFold(claims.OwnerID, booking.OwnerID) {
		return nil, domain.ScanFailure(domain.ScanMismatch)
	}
	// A booking update re-issues the token; a stale code carries the old
	// jti and fails here even when its exp has not passed.
	if !strings.EqualFold(claims.ID, booking.TokenID) {
		return nil, domain.ScanFailure(domain.ScanReplaced)
	}

	if err := s.checkWindow(ctx, booking); err != nil {
		return nil, err
	}

	consumed, err := s.bookings.MarkValidated(ctx, booking.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, domain.ScanFailure(domain.ScanAlreadyUsed)
	}

	validated, err := s.bookings.GetByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, validated)
	return validated, nil
}

func (s *ScanService) checkWindow(ctx context.Context, booking *domain.Booking) error {
	station, err := s.stations.GetByID(ctx, booking.StationID)
	if err != nil {
		return domain.ScanFailure(domain.ScanNotFound)
	}

	nowLocal, err := timeutil.ToLocal(s.now(), station.TimeZone)
	if err != nil {
		return err
	}
	startLocal, err := timeutil.ToLocal(booking.StartUTC, station.TimeZone)
	if err != nil {
		return err
	}
	endLocal, err := timeutil.ToLocal(booking.EndUTC, station.TimeZone)
	if err != nil {
		return err
	}

	earliest := startLocal.Add(-s.policy.EarlyGrace)
	latest := endLocal.Add(s.policy.LateGrace)
	if nowLocal.Before(earliest) || nowLocal.After(latest) {
		return domain.ScanFailure(domain.ScanOutOfWindow)
	}
	return nil
}

func (s *ScanService) publish(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      "booking_validated",
		BookingID: booking.ID,
		StationID: booking.StationID,
		OwnerID:   booking.OwnerID,
		Status:    string(booking.Status),
		StartUTC:  booking.StartUTC,
		EndUTC:    booking.EndUTC,
	}
	if err := s.producer.Publish(ctx, s.topic, booking.ID, event); err != nil {
		s.log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to publish validation event")
	}
}

var _ ScanUseCase = (*ScanService)(nil)
