package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pitchbook/internal/models"
	"pitchbook/internal/timeutil"
)

const reservationColumns = `id, customer_name, phone, email, date, start_min, end_min, amount, created_at`

// CreateReservation appends a reservation record. Records are immutable once
// written; there is no update path.
func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	query := `INSERT INTO reservations (` + reservationColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, query,
		r.ID,
		r.CustomerName,
		r.Phone,
		r.Email,
		r.Date,
		int(r.Interval.Start),
		int(r.Interval.End),
		r.Amount,
		r.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

// GetReservationsForDate returns the reservations committed for a canonical
// YYYY-MM-DD date key, ordered by start time for deterministic output.
func (db *DB) GetReservationsForDate(ctx context.Context, date string) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations WHERE date = ? ORDER BY start_min ASC`

	rows, err := db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations for date: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetReservation returns a single reservation by ID.
func (db *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`

	var r models.Reservation
	var startMin, endMin int
	err := db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.CustomerName, &r.Phone, &r.Email, &r.Date,
		&startMin, &endMin, &r.Amount, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	r.Interval = timeutil.Interval{Start: timeutil.Minutes(startMin), End: timeutil.Minutes(endMin)}
	return &r, nil
}

// ListReservations returns every reservation ordered by date then start time.
func (db *DB) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations ORDER BY date ASC, start_min ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetReservationsByDateRange returns reservations with date in [from, to],
// both canonical YYYY-MM-DD keys, ordered by date then start time.
func (db *DB) GetReservationsByDateRange(ctx context.Context, from, to string) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservations WHERE date >= ? AND date <= ?
              ORDER BY date ASC, start_min ASC`

	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations by date range: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func scanReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var reservations []models.Reservation
	for rows.Next() {
		var r models.Reservation
		var startMin, endMin int
		err := rows.Scan(
			&r.ID, &r.CustomerName, &r.Phone, &r.Email, &r.Date,
			&startMin, &endMin, &r.Amount, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		r.Interval = timeutil.Interval{Start: timeutil.Minutes(startMin), End: timeutil.Minutes(endMin)}
		reservations = append(reservations, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}
