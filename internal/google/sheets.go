package google

import (
	"context"
	"fmt"
	"os"

	"pitchbook/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	reservationsRange = "Bookings!A1:H"
	expensesRange     = "Expenses!A1:F"
)

// SheetsService mirrors the ledger into a Google spreadsheet with one tab for
// bookings and one for expenses. Each replace is a full overwrite; the sheet
// is a read-only copy for the owner, never a source of truth.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsService, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// TestConnection reads one cell to verify credentials and sharing.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Bookings!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// ReplaceReservationsSheet overwrites the bookings tab with the full ledger.
func (s *SheetsService) ReplaceReservationsSheet(ctx context.Context, reservations []models.Reservation) error {
	return s.replaceRange(ctx, reservationsRange, reservationRows(reservations))
}

// ReplaceExpensesSheet overwrites the expenses tab with the full ledger.
func (s *SheetsService) ReplaceExpensesSheet(ctx context.Context, expenses []models.Expense) error {
	return s.replaceRange(ctx, expensesRange, expenseRows(expenses))
}

func reservationRows(reservations []models.Reservation) [][]interface{} {
	values := [][]interface{}{
		{"ID", "Customer", "Phone", "Email", "Date", "Slot", "Amount", "Booked At"},
	}
	for _, r := range reservations {
		values = append(values, []interface{}{
			r.ID,
			r.CustomerName,
			r.Phone,
			r.Email,
			r.Date,
			r.Interval.String(),
			r.Amount,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return values
}

func expenseRows(expenses []models.Expense) [][]interface{} {
	values := [][]interface{}{
		{"ID", "Item", "Category", "Amount", "Notes", "Recorded At"},
	}
	for _, e := range expenses {
		values = append(values, []interface{}{
			e.ID,
			e.Item,
			e.Category,
			e.Amount,
			e.Notes,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return values
}

func (s *SheetsService) replaceRange(ctx context.Context, rangeData string, values [][]interface{}) error {
	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, rangeData, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear range %s: %v", rangeData, err)
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update range %s: %v", rangeData, err)
	}
	return nil
}
