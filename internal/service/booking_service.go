package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"pitchbook/internal/domain"
	"pitchbook/internal/events"
	"pitchbook/internal/metrics"
	"pitchbook/internal/models"
	"pitchbook/internal/pricing"
	"pitchbook/internal/schedule"
	"pitchbook/internal/timeutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrMalformedDate means the date key is not a valid YYYY-MM-DD value.
	ErrMalformedDate = errors.New("malformed date")

	// ErrDateOutOfWindow means the date falls outside the rolling booking window.
	ErrDateOutOfWindow = errors.New("date outside booking window")
)

const dateLockStripes = 32

// BookingService owns the check-then-insert sequence for reservations. All
// writes for a given date run under the same stripe lock, so two requests for
// overlapping slots cannot both pass validation.
type BookingService struct {
	store      domain.RecordStore
	eventBus   domain.EventPublisher
	mirror     domain.MirrorWorker
	window     schedule.OperatingWindow
	rates      pricing.RateSchedule
	windowDays int
	now        func() time.Time
	logger     *zerolog.Logger

	dateLocks [dateLockStripes]sync.Mutex
}

func NewBookingService(
	store domain.RecordStore,
	eventBus domain.EventPublisher,
	mirror domain.MirrorWorker,
	window schedule.OperatingWindow,
	rates pricing.RateSchedule,
	windowDays int,
	logger *zerolog.Logger,
) *BookingService {
	if windowDays <= 0 {
		windowDays = models.DefaultWindowDays
	}
	return &BookingService{
		store:      store,
		eventBus:   eventBus,
		mirror:     mirror,
		window:     window,
		rates:      rates,
		windowDays: windowDays,
		now:        time.Now,
		logger:     logger,
	}
}

// ParseDate validates a canonical YYYY-MM-DD date key.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, date)
	}
	return t, nil
}

// ValidateBookingDate applies the rolling window: today through today plus
// windowDays-1 inclusive.
func (s *BookingService) ValidateBookingDate(date string) error {
	day, err := ParseDate(date)
	if err != nil {
		return err
	}

	now := s.now()
	todayKey := now.Format(models.DateFormat)
	lastKey := now.AddDate(0, 0, s.windowDays-1).Format(models.DateFormat)

	key := day.Format(models.DateFormat)
	if key < todayKey || key > lastKey {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrDateOutOfWindow, key, todayKey, lastKey)
	}
	return nil
}

// Availability returns the free hourly slots for a date in ascending order.
func (s *BookingService) Availability(ctx context.Context, date string) ([]timeutil.Interval, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	reservations, err := s.store.GetReservationsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	return schedule.AvailableSlots(s.window, reservations), nil
}

// Quote prices an interval without committing anything.
func (s *BookingService) Quote(iv timeutil.Interval) int64 {
	return s.rates.Quote(iv)
}

// Book validates the request against the committed state for its date and, if
// every check passes, prices and commits the reservation.
func (s *BookingService) Book(ctx context.Context, req schedule.BookingRequest) (*models.Reservation, error) {
	if err := s.ValidateBookingDate(req.Date); err != nil {
		return nil, err
	}

	lock := s.lockForDate(req.Date)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.GetReservationsForDate(ctx, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	if err := schedule.ValidateRequest(req, existing); err != nil {
		var conflict *schedule.ConflictError
		if errors.As(err, &conflict) {
			metrics.IncBookingConflict()
			s.publishConflict(req, conflict)
		}
		return nil, err
	}

	if !s.window.Contains(req.Interval) {
		return nil, fmt.Errorf("%w: %s outside operating hours", schedule.ErrInvalidRange, req.Interval)
	}

	reservation := &models.Reservation{
		ID:           uuid.NewString(),
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		Date:         req.Date,
		Interval:     req.Interval,
		Amount:       s.rates.Quote(req.Interval),
		CreatedAt:    s.now(),
	}

	if err := s.store.CreateReservation(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	metrics.IncBookingCreated()
	s.publishCreated(reservation)
	s.enqueueMirror(ctx, "booking_created")

	s.logger.Info().
		Str("reservation_id", reservation.ID).
		Str("date", reservation.Date).
		Str("slot", reservation.Interval.String()).
		Int64("amount", reservation.Amount).
		Msg("reservation committed")

	return reservation, nil
}

// BookedDates returns the distinct dates that have at least one reservation,
// in ascending order.
func (s *BookingService) BookedDates(ctx context.Context) ([]string, error) {
	reservations, err := s.store.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	var dates []string
	for _, r := range reservations {
		if len(dates) == 0 || dates[len(dates)-1] != r.Date {
			dates = append(dates, r.Date)
		}
	}
	return dates, nil
}

// Reservations returns every committed reservation for the owner's review.
func (s *BookingService) Reservations(ctx context.Context) ([]models.Reservation, error) {
	return s.store.ListReservations(ctx)
}

// ReservationsForRange returns reservations with dates in [from, to].
func (s *BookingService) ReservationsForRange(ctx context.Context, from, to string) ([]models.Reservation, error) {
	if _, err := ParseDate(from); err != nil {
		return nil, err
	}
	if _, err := ParseDate(to); err != nil {
		return nil, err
	}
	return s.store.GetReservationsByDateRange(ctx, from, to)
}

func (s *BookingService) lockForDate(date string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(date))
	return &s.dateLocks[h.Sum32()%dateLockStripes]
}

func (s *BookingService) publishCreated(r *models.Reservation) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		ReservationID: r.ID,
		CustomerName:  r.CustomerName,
		Phone:         r.Phone,
		Date:          r.Date,
		Slot:          r.Interval.String(),
		Amount:        r.Amount,
	}

	if err := s.eventBus.PublishJSON(events.EventBookingCreated, payload); err != nil {
		s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("publish event error")
	}
}

func (s *BookingService) publishConflict(req schedule.BookingRequest, conflict *schedule.ConflictError) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		CustomerName: req.CustomerName,
		Date:         req.Date,
		Slot:         req.Interval.String(),
	}

	if err := s.eventBus.PublishJSON(events.EventBookingConflict, payload); err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Msg("publish event error")
	}
}

func (s *BookingService) enqueueMirror(ctx context.Context, reason string) {
	if s.mirror == nil {
		return
	}

	if err := s.mirror.EnqueueMirror(ctx, reason); err != nil {
		s.logger.Error().Err(err).Str("reason", reason).Msg("mirror enqueue error")
	}
}
