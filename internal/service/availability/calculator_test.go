package availability

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) GetByStationAndDay(ctx context.Context, stationID string, day time.Time) (*domain.StationSchedule, error) {
	args := m.Called(ctx, stationID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Range(ctx context.Context, stationID string, from, to time.Time) ([]domain.StationSchedule, error) {
	args := m.Called(ctx, stationID, from, to)
	return args.Get(0).([]domain.StationSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Upsert(ctx context.Context, schedule *domain.StationSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) List(ctx context.Context) ([]domain.Station, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Station), args.Error(1)
}

func (m *MockStationRepository) IsOperatorAssigned(ctx context.Context, stationID, operatorID string) (bool, error) {
	args := m.Called(ctx, stationID, operatorID)
	return args.Bool(0), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) OverlapCount(ctx context.Context, stationID string, startUTC, endUTC time.Time, excludeID string) (int, error) {
	args := m.Called(ctx, stationID, startUTC, endUTC, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) OwnerOverlapExists(ctx context.Context, ownerID string, startUTC, endUTC time.Time, excludeID string) (bool, error) {
	args := m.Called(ctx, ownerID, startUTC, endUTC, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) InsertGuarded(ctx context.Context, booking *domain.Booking, maxConcurrent int, lockKey string) error {
	args := m.Called(ctx, booking, maxConcurrent, lockKey)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateWindowGuarded(ctx context.Context, booking *domain.Booking, maxConcurrent int, lockKey string) error {
	args := m.Called(ctx, booking, maxConcurrent, lockKey)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, isAuthActive bool) (*domain.Booking, error) {
	args := m.Called(ctx, id, status, isAuthActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkValidated(ctx context.Context, id string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func utcStation() *domain.Station {
	return &domain.Station{ID: "st-1", Name: "Depot North", TimeZone: "UTC", TotalSlots: 4, IsActive: true}
}

func newCalculator(schedule *domain.StationSchedule, overlapCount int) (*Service, *MockBookingRepository) {
	schedules := &MockScheduleRepository{}
	stations := &MockStationRepository{}
	bookings := &MockBookingRepository{}

	stations.On("GetByID", mock.Anything, "st-1").Return(utcStation(), nil)
	if schedule != nil {
		schedules.On("GetByStationAndDay", mock.Anything, "st-1", mock.Anything).Return(schedule, nil)
	} else {
		schedules.On("GetByStationAndDay", mock.Anything, "st-1", mock.Anything).Return(nil, domain.ErrNotFound)
	}
	bookings.On("OverlapCount", mock.Anything, "st-1", mock.Anything, mock.Anything, "").Return(overlapCount, nil)

	return NewService(schedules, stations, bookings), bookings
}

// Two 30-minute slots for a 06:00-07:00 window, both fully available when
// no bookings exist.
func TestSlotsForDay_Deterministic(t *testing.T) {
	schedule := &domain.StationSchedule{StationID: "st-1", OpenMinutes: 360, CloseMinutes: 420, MaxConcurrent: 2}
	svc, _ := newCalculator(schedule, 0)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slots, err := svc.SlotsForDay(context.Background(), "st-1", day, 30)
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 9, 10, 6, 0, 0, 0, time.UTC), slots[0].StartUTC)
	assert.Equal(t, time.Date(2026, 9, 10, 6, 30, 0, 0, time.UTC), slots[0].EndUTC)
	assert.Equal(t, time.Date(2026, 9, 10, 6, 30, 0, 0, time.UTC), slots[1].StartUTC)
	assert.Equal(t, time.Date(2026, 9, 10, 7, 0, 0, 0, time.UTC), slots[1].EndUTC)
	assert.Equal(t, 2, slots[0].Available)
	assert.Equal(t, 2, slots[1].Available)
}

// A granularity that does not divide the span evenly drops the trailing
// partial window instead of truncating it.
func TestSlotsForDay_TrailingPartialDropped(t *testing.T) {
	schedule := &domain.StationSchedule{StationID: "st-1", OpenMinutes: 360, CloseMinutes: 420, MaxConcurrent: 2}
	svc, _ := newCalculator(schedule, 0)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slots, err := svc.SlotsForDay(context.Background(), "st-1", day, 45)
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 9, 10, 6, 0, 0, 0, time.UTC), slots[0].StartUTC)
	assert.Equal(t, time.Date(2026, 9, 10, 6, 45, 0, 0, time.UTC), slots[0].EndUTC)
}

func TestSlotsForDay_AvailableFloorsAtZero(t *testing.T) {
	schedule := &domain.StationSchedule{StationID: "st-1", OpenMinutes: 360, CloseMinutes: 420, MaxConcurrent: 2}
	svc, _ := newCalculator(schedule, 5)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slots, err := svc.SlotsForDay(context.Background(), "st-1", day, 30)
	require.NoError(t, err)

	for _, slot := range slots {
		assert.Equal(t, 0, slot.Available)
	}
}

func TestSlotsForDay_NoSchedule(t *testing.T) {
	svc, _ := newCalculator(nil, 0)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.SlotsForDay(context.Background(), "st-1", day, 30)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSlotsForDay_BadSchedule(t *testing.T) {
	schedule := &domain.StationSchedule{StationID: "st-1", OpenMinutes: 420, CloseMinutes: 420, MaxConcurrent: 2}
	svc, _ := newCalculator(schedule, 0)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.SlotsForDay(context.Background(), "st-1", day, 30)
	assert.ErrorIs(t, err, domain.ErrBadSchedule)
}

func TestSlotsForDay_BadGranularity(t *testing.T) {
	schedule := &domain.StationSchedule{StationID: "st-1", OpenMinutes: 360, CloseMinutes: 420, MaxConcurrent: 2}
	svc, _ := newCalculator(schedule, 0)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.SlotsForDay(context.Background(), "st-1", day, 0)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

// Availability is recomputed per call: a booking appearing between calls
// changes the result.
func TestSlotsForDay_NoStaleState(t *testing.T) {
	schedule := &domain.StationSchedule{StationID: "st-1", OpenMinutes: 360, CloseMinutes: 420, MaxConcurrent: 2}

	schedules := &MockScheduleRepository{}
	stations := &MockStationRepository{}
	bookings := &MockBookingRepository{}
	stations.On("GetByID", mock.Anything, "st-1").Return(utcStation(), nil)
	schedules.On("GetByStationAndDay", mock.Anything, "st-1", mock.Anything).Return(schedule, nil)
	bookings.On("OverlapCount", mock.Anything, "st-1", mock.Anything, mock.Anything, "").Return(0, nil).Twice()
	bookings.On("OverlapCount", mock.Anything, "st-1", mock.Anything, mock.Anything, "").Return(1, nil).Twice()

	svc := NewService(schedules, stations, bookings)
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	first, err := svc.SlotsForDay(context.Background(), "st-1", day, 30)
	require.NoError(t, err)
	second, err := svc.SlotsForDay(context.Background(), "st-1", day, 30)
	require.NoError(t, err)

	assert.Equal(t, 2, first[0].Available)
	assert.Equal(t, 1, second[0].Available)
}
