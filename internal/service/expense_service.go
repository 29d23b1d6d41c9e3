package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pitchbook/internal/domain"
	"pitchbook/internal/events"
	"pitchbook/internal/metrics"
	"pitchbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidExpense means the expense line is missing a field or has a
// non-positive amount.
var ErrInvalidExpense = errors.New("invalid expense")

// ExpenseService records owner expense lines into the same append-only ledger
// reservations live in.
type ExpenseService struct {
	store    domain.RecordStore
	eventBus domain.EventPublisher
	mirror   domain.MirrorWorker
	logger   *zerolog.Logger
}

func NewExpenseService(store domain.RecordStore, eventBus domain.EventPublisher, mirror domain.MirrorWorker, logger *zerolog.Logger) *ExpenseService {
	return &ExpenseService{
		store:    store,
		eventBus: eventBus,
		mirror:   mirror,
		logger:   logger,
	}
}

// Record validates and appends an expense line. The ID is assigned here.
func (s *ExpenseService) Record(ctx context.Context, e *models.Expense) error {
	if strings.TrimSpace(e.Item) == "" {
		return fmt.Errorf("%w: item is required", ErrInvalidExpense)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidExpense)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return fmt.Errorf("failed to record expense: %w", err)
	}

	metrics.IncExpenseRecorded()
	s.publishRecorded(e)
	s.enqueueMirror(ctx, "expense_recorded")

	s.logger.Info().
		Str("expense_id", e.ID).
		Str("category", e.Category).
		Int64("amount", e.Amount).
		Msg("expense recorded")

	return nil
}

// List returns all expense lines, most recent first.
func (s *ExpenseService) List(ctx context.Context) ([]models.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *ExpenseService) publishRecorded(e *models.Expense) {
	if s.eventBus == nil {
		return
	}

	payload := events.ExpenseEventPayload{
		ExpenseID: e.ID,
		Item:      e.Item,
		Category:  e.Category,
		Amount:    e.Amount,
	}

	if err := s.eventBus.PublishJSON(events.EventExpenseRecorded, payload); err != nil {
		s.logger.Error().Err(err).Str("expense_id", e.ID).Msg("publish event error")
	}
}

func (s *ExpenseService) enqueueMirror(ctx context.Context, reason string) {
	if s.mirror == nil {
		return
	}

	if err := s.mirror.EnqueueMirror(ctx, reason); err != nil {
		s.logger.Error().Err(err).Str("reason", reason).Msg("mirror enqueue error")
	}
}
