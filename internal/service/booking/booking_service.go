package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/Domenick1991/chargebooking/internal/kafka"
	"github.com/Domenick1991/chargebooking/internal/qrtoken"
	"github.com/Domenick1991/chargebooking/internal/repository"
	"github.com/Domenick1991/chargebooking/internal/timeutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, input UpdateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, ownerID string) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error)
	RejectBooking(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error)
	FinalizeBooking(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireStationLock(ctx context.Context, stationID, localDay string, ttl time.Duration) (bool, error)
	ReleaseStationLock(ctx context.Context, stationID, localDay string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TokenIssuer interface {
	Issue(booking *domain.Booking) (*qrtoken.Issued, error)
}

// Policy carries the temporal admission rules. Horizon bounds how far ahead
// a session may be created; ModifyCutoff is the minimum lead time, against
// the original start, for updates and cancellations.
type Policy struct {
	Horizon      time.Duration
	ModifyCutoff time.Duration
	LockTTL      time.Duration
	DefaultZone  string
}

type BookingService struct {
	bookings  repository.BookingRepository
	schedules repository.ScheduleRepository
	stations  repository.StationRepository
	cache     Cache
	producer  Producer
	issuer    TokenIssuer
	policy    Policy

	eventsTopic        string
	notificationsTopic string

	log zerolog.Logger
	now func() time.Time
}

type CreateBookingInput struct {
	OwnerID   string
	StationID string
	Start     timeutil.TimeInput
	End       timeutil.TimeInput
}

type UpdateBookingInput struct {
	BookingID string
	OwnerID   string
	Start     timeutil.TimeInput
	End       timeutil.TimeInput
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	schedules repository.ScheduleRepository,
	stations repository.StationRepository,
	cache Cache,
	producer Producer,
	issuer TokenIssuer,
	policy Policy,
	eventsTopic string,
	log zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		schedules:   schedules,
		stations:    stations,
		cache:       cache,
		producer:    producer,
		issuer:      issuer,
		policy:      policy,
		eventsTopic: eventsTopic,
		log:         log,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.OwnerID == "" {
		return nil, errors.New("owner id is required")
	}

	station, err := s.stations.GetByID(ctx, input.StationID)
	if err != nil {
		return nil, err
	}
	if !station.IsActive {
		return nil, domain.ErrNotFound
	}

	startUTC, endUTC, err := s.resolveWindow(input.Start, input.End, station.TimeZone)
	if err != nil {
		return nil, err
	}

	schedule, err := s.admit(ctx, station, startUTC, endUTC, input.OwnerID, "")
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:        uuid.NewString(),
		OwnerID:   input.OwnerID,
		StationID: input.StationID,
		StartUTC:  startUTC,
		EndUTC:    endUTC,
	}

	// Token is minted at creation time so the booking object always carries
	// its credential; approval only flips the activation flag.
	issued, err := s.issuer.Issue(booking)
	if err != nil {
		return nil, fmt.Errorf("issue qr token: %w", err)
	}
	booking.QRToken = issued.Token
	booking.TokenID = issued.JTI
	booking.TokenIssuedAt = issued.IssuedAt
	booking.TokenExpiresAt = issued.ExpiresAt

	lockDay, err := s.localDay(startUTC, station.TimeZone)
	if err != nil {
		return nil, err
	}

	locked, err := s.cache.AcquireStationLock(ctx, station.ID, lockDay, s.policy.LockTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("station_id", station.ID).Msg("station lock unavailable, relying on store guard")
	}
	if locked {
		defer func() { _ = s.cache.ReleaseStationLock(ctx, station.ID, lockDay) }()
	}

	if err := s.bookings.InsertGuarded(ctx, booking, schedule.MaxConcurrent, lockKey(station.ID, lockDay)); err != nil {
		if errors.Is(err, domain.ErrCapacityRace) {
			s.log.Warn().Str("booking_id", booking.ID).Str("station_id", station.ID).Msg("capacity race lost, booking rejected")
		}
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, input UpdateBookingInput) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != input.OwnerID {
		return nil, domain.ErrNotFound
	}
	if current.Status.IsTerminal() {
		return nil, fmt.Errorf("booking is %s and cannot be changed", current.Status)
	}

	// Cutoff is measured against the original scheduled start, before any
	// change is considered.
	if current.StartUTC.Sub(s.now()) < s.policy.ModifyCutoff {
		return nil, domain.ErrTooLateToModify
	}

	station, err := s.stations.GetByID(ctx, current.StationID)
	if err != nil {
		return nil, err
	}

	startUTC, endUTC, err := s.resolveWindow(input.Start, input.End, station.TimeZone)
	if err != nil {
		return nil, err
	}

	schedule, err := s.admit(ctx, station, startUTC, endUTC, current.OwnerID, current.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.StartUTC = startUTC
	updated.EndUTC = endUTC

	// Re-issuing overwrites the stored jti, which is what invalidates a
	// previously scanned code for the old window.
	issued, err := s.issuer.Issue(&updated)
	if err != nil {
		return nil, fmt.Errorf("issue qr token: %w", err)
	}
	updated.QRToken = issued.Token
	updated.TokenID = issued.JTI
	updated.TokenIssuedAt = issued.IssuedAt
	updated.TokenExpiresAt = issued.ExpiresAt

	lockDay, err := s.localDay(startUTC, station.TimeZone)
	if err != nil {
		return nil, err
	}

	locked, err := s.cache.AcquireStationLock(ctx, station.ID, lockDay, s.policy.LockTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("station_id", station.ID).Msg("station lock unavailable, relying on store guard")
	}
	if locked {
		defer func() { _ = s.cache.ReleaseStationLock(ctx, station.ID, lockDay) }()
	}

	if err := s.bookings.UpdateWindowGuarded(ctx, &updated, schedule.MaxConcurrent, lockKey(station.ID, lockDay)); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_updated", &updated)
	return &updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID, ownerID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	if !current.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, fmt.Errorf("booking is %s and cannot be cancelled", current.Status)
	}
	if current.StartUTC.Sub(s.now()) < s.policy.ModifyCutoff {
		return nil, domain.ErrTooLateToModify
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled, false)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

func (s *BookingService) ApproveBooking(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error) {
	current, err := s.operatorBooking(ctx, bookingID, operatorID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.BookingStatusApproved) {
		return nil, fmt.Errorf("booking is %s and cannot be approved", current.Status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusApproved, true)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_approved", updated)
	return updated, nil
}

func (s *BookingService) RejectBooking(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error) {
	current, err := s.operatorBooking(ctx, bookingID, operatorID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.BookingStatusRejected) {
		return nil, fmt.Errorf("booking is %s and cannot be rejected", current.Status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusRejected, false)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_rejected", updated)
	return updated, nil
}

func (s *BookingService) FinalizeBooking(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error) {
	current, err := s.operatorBooking(ctx, bookingID, operatorID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.BookingStatusCompleted) {
		return nil, fmt.Errorf("booking is %s and cannot be finalized", current.Status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCompleted, false)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_completed", updated)
	return updated, nil
}

func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		s.publish(ctx, "booking_expired", &expired[i])
	}
	return expired, nil
}

// admit runs the create-style guards in a fixed order and reports the first
// violation as the single inadmissibility reason. excludeID removes the
// booking's own row when an update re-checks its new window.
func (s *BookingService) admit(ctx context.Context, station *domain.Station, startUTC, endUTC time.Time, ownerID, excludeID string) (*domain.StationSchedule, error) {
	if !endUTC.After(startUTC) {
		return nil, errors.New("end must be after start")
	}

	now := s.now()
	if !startUTC.After(now) {
		return nil, domain.Inadmissible(domain.ReasonPastStart)
	}
	if startUTC.After(now.Add(s.policy.Horizon)) {
		return nil, domain.Inadmissible(domain.ReasonHorizonExceeded)
	}

	startLocal, err := timeutil.ToLocal(startUTC, station.TimeZone)
	if err != nil {
		return nil, err
	}
	endLocal, err := timeutil.ToLocal(endUTC, station.TimeZone)
	if err != nil {
		return nil, err
	}

	day := timeutil.DayStart(startLocal)
	schedule, err := s.schedules.GetByStationAndDay(ctx, station.ID, day)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Inadmissible(domain.ReasonNoSchedule)
		}
		return nil, err
	}

	open := day.Add(time.Duration(schedule.OpenMinutes) * time.Minute)
	close := day.Add(time.Duration(schedule.CloseMinutes) * time.Minute)
	if startLocal.Before(open) || endLocal.After(close) {
		return nil, domain.Inadmissible(domain.ReasonOutsideSchedule)
	}

	count, err := s.bookings.OverlapCount(ctx, station.ID, startUTC, endUTC, excludeID)
	if err != nil {
		return nil, err
	}
	if count >= schedule.MaxConcurrent {
		return nil, domain.Inadmissible(domain.ReasonFull)
	}

	overlap, err := s.bookings.OwnerOverlapExists(ctx, ownerID, startUTC, endUTC, excludeID)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, domain.Inadmissible(domain.ReasonOwnerOverlap)
	}

	return schedule, nil
}

func (s *BookingService) operatorBooking(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.stations.IsOperatorAssigned(ctx, current.StationID, operatorID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, fmt.Errorf("operator %s is not assigned to station %s", operatorID, current.StationID)
	}
	return current, nil
}

func (s *BookingService) resolveWindow(start, end timeutil.TimeInput, zone string) (time.Time, time.Time, error) {
	defaultZone := zone
	if defaultZone == "" {
		defaultZone = s.policy.DefaultZone
	}
	startUTC, err := start.Resolve(defaultZone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endUTC, err := end.Resolve(defaultZone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startUTC, endUTC, nil
}

func (s *BookingService) localDay(utc time.Time, zone string) (string, error) {
	local, err := timeutil.ToLocal(utc, zone)
	if err != nil {
		return "", err
	}
	return local.Format("2006-01-02"), nil
}

func lockKey(stationID, localDay string) string {
	return stationID + ":" + localDay
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		StationID: booking.StationID,
		OwnerID:   booking.OwnerID,
		Status:    string(booking.Status),
		StartUTC:  booking.StartUTC,
		EndUTC:    booking.EndUTC,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID, event); err != nil {
		s.log.Warn().Err(err).Str("booking_id", booking.ID).Str("event", eventType).Msg("failed to publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.log.Warn().Err(err).Str("booking_id", booking.ID).Str("event", eventType).Msg("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
