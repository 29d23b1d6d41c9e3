package domain

import (
	"context"
	"time"

	"pitchbook/internal/models"
)

// RecordStore is the append-only persistence boundary for reservations and
// expenses. Records are never updated or deleted once committed.
type RecordStore interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	GetReservationsForDate(ctx context.Context, date string) ([]models.Reservation, error)
	GetReservationsByDateRange(ctx context.Context, from, to string) ([]models.Reservation, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
	CreateExpense(ctx context.Context, e *models.Expense) error
	ListExpenses(ctx context.Context) ([]models.Expense, error)
}

// SessionRepository stores owner sessions keyed by opaque token.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*models.OwnerSession, error)
	SetSession(ctx context.Context, session *models.OwnerSession) error
	DeleteSession(ctx context.Context, token string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SheetsWriter mirrors ledger data to an external spreadsheet.
type SheetsWriter interface {
	ReplaceReservationsSheet(ctx context.Context, reservations []models.Reservation) error
	ReplaceExpensesSheet(ctx context.Context, expenses []models.Expense) error
}

// MirrorWorker accepts asynchronous mirror tasks after ledger writes.
type MirrorWorker interface {
	EnqueueMirror(ctx context.Context, reason string) error
}

// Notifier delivers out-of-band owner notifications.
type Notifier interface {
	NotifyOwner(ctx context.Context, text string) error
}

// Clock abstracts time.Now for services that apply the booking window.
type Clock interface {
	Now() time.Time
}
