package worker

import (
	"context"
	"fmt"
	"time"

	"pitchbook/internal/domain"
	"pitchbook/internal/export"
	"pitchbook/internal/metrics"
	"pitchbook/internal/models"

	"github.com/rs/zerolog"
)

type mirrorTask struct {
	Reason    string
	CreatedAt time.Time
}

// MirrorWorker rewrites the xlsx mirror workbooks (and optionally a Google
// Sheets copy) after ledger writes. Every task is a full rewrite, so tasks
// dropped while the queue is full are covered by the next one that lands.
type MirrorWorker struct {
	store       domain.RecordStore
	exporter    *export.Exporter
	sheets      domain.SheetsWriter
	retryPolicy RetryPolicy
	queue       chan mirrorTask
	logger      *zerolog.Logger
}

func NewMirrorWorker(
	store domain.RecordStore,
	exporter *export.Exporter,
	sheets domain.SheetsWriter,
	retry RetryPolicy,
	logger *zerolog.Logger,
) *MirrorWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &MirrorWorker{
		store:       store,
		exporter:    exporter,
		sheets:      sheets,
		retryPolicy: retry,
		queue:       make(chan mirrorTask, models.MirrorQueueSize),
		logger:      logger,
	}
}

// EnqueueMirror schedules a mirror rewrite. Never blocks the caller.
func (w *MirrorWorker) EnqueueMirror(ctx context.Context, reason string) error {
	select {
	case w.queue <- mirrorTask{Reason: reason, CreatedAt: time.Now()}:
	default:
		// Queue full: a pending rewrite will pick up this change anyway.
		w.logger.Warn().Str("reason", reason).Msg("mirror queue full, task coalesced")
	}
	return nil
}

// Start launches the worker loop; stops when ctx is done.
func (w *MirrorWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("mirror worker started")
	defer w.logger.Info().Msg("mirror worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.drainPending()
			w.processWithRetry(ctx, task)
		}
	}
}

// drainPending collapses queued tasks into the one being processed.
func (w *MirrorWorker) drainPending() {
	for {
		select {
		case <-w.queue:
		default:
			return
		}
	}
}

func (w *MirrorWorker) processWithRetry(ctx context.Context, task mirrorTask) {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		if err := w.process(ctx); err != nil {
			lastErr = err
			w.logger.Warn().Err(err).Int("attempt", attempt).Str("reason", task.Reason).Msg("mirror rewrite failed")

			select {
			case <-ctx.Done():
				return
			case <-time.After(w.retryPolicy.NextDelay(attempt)):
			}
			continue
		}

		metrics.IncMirrorTask("ok")
		return
	}

	metrics.IncMirrorTask("error")
	w.logger.Error().Err(lastErr).Str("reason", task.Reason).Msg("mirror rewrite gave up")
}

func (w *MirrorWorker) process(ctx context.Context) error {
	reservations, err := w.store.ListReservations(ctx)
	if err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}

	expenses, err := w.store.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	if err := w.exporter.MirrorToDisk(reservations, expenses); err != nil {
		return fmt.Errorf("write mirror workbooks: %w", err)
	}

	if w.sheets != nil {
		if err := w.sheets.ReplaceReservationsSheet(ctx, reservations); err != nil {
			return fmt.Errorf("replace reservations sheet: %w", err)
		}
		if err := w.sheets.ReplaceExpensesSheet(ctx, expenses); err != nil {
			return fmt.Errorf("replace expenses sheet: %w", err)
		}
	}

	return nil
}
