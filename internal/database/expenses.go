package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pitchbook/internal/models"
)

const expenseColumns = `id, item, category, amount, notes, created_at`

// CreateExpense appends a line to the expense ledger.
func (db *DB) CreateExpense(ctx context.Context, e *models.Expense) error {
	query := `INSERT INTO expenses (` + expenseColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, query,
		e.ID,
		e.Item,
		e.Category,
		e.Amount,
		e.Notes,
		e.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// ListExpenses returns all expenses, most recent first.
func (db *DB) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		err := rows.Scan(&e.ID, &e.Item, &e.Category, &e.Amount, &e.Notes, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}
