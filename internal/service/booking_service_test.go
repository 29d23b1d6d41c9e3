package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"pitchbook/internal/domain"
	"pitchbook/internal/events"
	"pitchbook/internal/models"
	"pitchbook/internal/pricing"
	"pitchbook/internal/schedule"
	"pitchbook/internal/timeutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockStore) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *mockStore) GetReservationsForDate(ctx context.Context, date string) ([]models.Reservation, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}
func (m *mockStore) GetReservationsByDateRange(ctx context.Context, from, to string) ([]models.Reservation, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}
func (m *mockStore) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}
func (m *mockStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Expense), args.Error(1)
}

type mockMirror struct {
	mock.Mock
}

func (m *mockMirror) EnqueueMirror(ctx context.Context, reason string) error {
	return m.Called(ctx, reason).Error(0)
}

func interval(t *testing.T, start, end string) timeutil.Interval {
	t.Helper()
	iv, err := timeutil.NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func newTestBookingService(store *mockStore, bus *events.EventBus, mirror *mockMirror) *BookingService {
	logger := zerolog.New(io.Discard)

	var mw domain.MirrorWorker
	if mirror != nil {
		mw = mirror
	}

	svc := NewBookingService(
		store,
		bus,
		mw,
		schedule.OperatingWindow{OpenHour: 6, CloseHour: 23},
		pricing.RateSchedule{Boundary: 18 * timeutil.MinutesPerHour, DayRate: 400, NightRate: 500},
		14,
		&logger,
	)
	// Fixed clock so the booking window is deterministic.
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func validRequest(t *testing.T, date, start, end string) schedule.BookingRequest {
	t.Helper()
	return schedule.BookingRequest{
		CustomerName: "Test Customer",
		Phone:        "+1234567890",
		Email:        "test@example.com",
		Date:         date,
		Interval:     interval(t, start, end),
	}
}

func TestBookSuccess(t *testing.T) {
	store := new(mockStore)
	mirror := new(mockMirror)
	bus := events.NewEventBus()
	svc := newTestBookingService(store, bus, mirror)

	var published []*events.Event
	bus.Subscribe(events.EventBookingCreated, func(e *events.Event) error {
		published = append(published, e)
		return nil
	})

	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return([]models.Reservation{}, nil)
	store.On("CreateReservation", mock.Anything, mock.AnythingOfType("*models.Reservation")).Return(nil)
	mirror.On("EnqueueMirror", mock.Anything, "booking_created").Return(nil)

	got, err := svc.Book(context.Background(), validRequest(t, "2026-09-05", "09:00", "17:00"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, int64(3200), got.Amount)
	assert.Equal(t, "2026-09-05", got.Date)

	require.Len(t, published, 1)
	store.AssertExpectations(t)
	mirror.AssertExpectations(t)
}

func TestBookSplitRate(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return([]models.Reservation{}, nil)
	store.On("CreateReservation", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Book(context.Background(), validRequest(t, "2026-09-05", "17:00", "19:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(900), got.Amount)
}

func TestBookConflict(t *testing.T) {
	store := new(mockStore)
	bus := events.NewEventBus()
	svc := newTestBookingService(store, bus, nil)

	var conflicts int
	bus.Subscribe(events.EventBookingConflict, func(e *events.Event) error {
		conflicts++
		return nil
	})

	existing := []models.Reservation{{
		ID:       "res-1",
		Date:     "2026-09-05",
		Interval: interval(t, "10:00", "11:00"),
	}}
	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return(existing, nil)

	_, err := svc.Book(context.Background(), validRequest(t, "2026-09-05", "09:30", "10:30"))
	require.Error(t, err)

	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, interval(t, "10:00", "11:00"), conflict.With)
	assert.Equal(t, 1, conflicts)

	store.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
}

func TestBookTouchingSlotAccepted(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	existing := []models.Reservation{{
		ID:       "res-1",
		Date:     "2026-09-05",
		Interval: interval(t, "08:00", "09:00"),
	}}
	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return(existing, nil)
	store.On("CreateReservation", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Book(context.Background(), validRequest(t, "2026-09-05", "09:00", "10:00"))
	require.NoError(t, err)
}

func TestBookMissingField(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return([]models.Reservation{}, nil)

	req := validRequest(t, "2026-09-05", "10:00", "11:00")
	req.Phone = "  "

	_, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrMissingField)
	store.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
}

func TestBookInvalidRange(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return([]models.Reservation{}, nil)

	req := validRequest(t, "2026-09-05", "10:00", "11:00")
	req.Interval = timeutil.Interval{Start: 660, End: 600}

	_, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)
}

func TestBookOutsideOperatingHours(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return([]models.Reservation{}, nil)

	_, err := svc.Book(context.Background(), validRequest(t, "2026-09-05", "05:00", "07:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)
	store.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
}

func TestBookDateWindow(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	tests := []struct {
		name string
		date string
		err  error
	}{
		{"past date", "2026-08-31", ErrDateOutOfWindow},
		{"beyond window", "2026-09-15", ErrDateOutOfWindow},
		{"malformed", "05-09-2026", ErrMalformedDate},
		{"garbage", "not-a-date", ErrMalformedDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(context.Background(), validRequest(t, tt.date, "10:00", "11:00"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	// Window edges: today and the last covered day are both bookable.
	store.On("GetReservationsForDate", mock.Anything, mock.Anything).Return([]models.Reservation{}, nil)
	store.On("CreateReservation", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Book(context.Background(), validRequest(t, "2026-09-01", "10:00", "11:00"))
	assert.NoError(t, err)
	_, err = svc.Book(context.Background(), validRequest(t, "2026-09-14", "10:00", "11:00"))
	assert.NoError(t, err)
}

func TestBookPersistenceFailure(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return([]models.Reservation{}, nil)
	store.On("CreateReservation", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Book(context.Background(), validRequest(t, "2026-09-05", "10:00", "11:00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit reservation")
}

func TestAvailability(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	existing := []models.Reservation{{
		ID:       "res-1",
		Date:     "2026-09-05",
		Interval: interval(t, "09:30", "10:30"),
	}}
	store.On("GetReservationsForDate", mock.Anything, "2026-09-05").Return(existing, nil)

	slots, err := svc.Availability(context.Background(), "2026-09-05")
	require.NoError(t, err)

	// 17 hourly candidates minus the two the booking straddles.
	assert.Len(t, slots, 15)
	for _, slot := range slots {
		assert.False(t, timeutil.Overlaps(slot, existing[0].Interval))
	}
}

func TestAvailabilityMalformedDate(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	_, err := svc.Availability(context.Background(), "2026/09/05")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestBookedDates(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	store.On("ListReservations", mock.Anything).Return([]models.Reservation{
		{ID: "res-1", Date: "2026-09-05", Interval: interval(t, "09:00", "10:00")},
		{ID: "res-2", Date: "2026-09-05", Interval: interval(t, "11:00", "12:00")},
		{ID: "res-3", Date: "2026-09-06", Interval: interval(t, "09:00", "10:00")},
	}, nil)

	dates, err := svc.BookedDates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-05", "2026-09-06"}, dates)
}

func TestReservationsForRange(t *testing.T) {
	store := new(mockStore)
	svc := newTestBookingService(store, nil, nil)

	store.On("GetReservationsByDateRange", mock.Anything, "2026-09-01", "2026-09-07").
		Return([]models.Reservation{{ID: "res-1"}}, nil)

	got, err := svc.ReservationsForRange(context.Background(), "2026-09-01", "2026-09-07")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ReservationsForRange(context.Background(), "bad", "2026-09-07")
	assert.ErrorIs(t, err, ErrMalformedDate)
}
