package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"pitchbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	reservationsSheet = "Bookings"
	expensesSheet     = "Expenses"
)

// Exporter builds xlsx workbooks from ledger data. The same builders back the
// owner download endpoints and the background spreadsheet mirror.
type Exporter struct {
	path   string
	logger *zerolog.Logger
}

func NewExporter(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: path, logger: logger}
}

// BuildReservationsWorkbook renders one row per reservation, oldest date first.
func (e *Exporter) BuildReservationsWorkbook(reservations []models.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(reservationsSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Customer", "Phone", "Email", "Date", "Slot", "Amount", "Booked At"}
	writeHeaderRow(f, reservationsSheet, headers)

	for i, r := range reservations {
		row := i + 2
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("A%d", row), r.ID)
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("B%d", row), r.CustomerName)
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("C%d", row), r.Phone)
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("D%d", row), r.Email)
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("E%d", row), r.Date)
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("F%d", row), r.Interval.String())
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("G%d", row), r.Amount)
		_ = f.SetCellValue(reservationsSheet, fmt.Sprintf("H%d", row), r.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(reservationsSheet, "A", "A", 38)
	_ = f.SetColWidth(reservationsSheet, "B", "D", 22)
	_ = f.SetColWidth(reservationsSheet, "E", "F", 14)
	_ = f.SetColWidth(reservationsSheet, "G", "G", 10)
	_ = f.SetColWidth(reservationsSheet, "H", "H", 18)

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

// BuildExpensesWorkbook renders one row per expense line, most recent first.
func (e *Exporter) BuildExpensesWorkbook(expenses []models.Expense) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(expensesSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Item", "Category", "Amount", "Notes", "Recorded At"}
	writeHeaderRow(f, expensesSheet, headers)

	var total int64
	for i, exp := range expenses {
		row := i + 2
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("A%d", row), exp.ID)
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("B%d", row), exp.Item)
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("C%d", row), exp.Category)
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("D%d", row), exp.Amount)
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("E%d", row), exp.Notes)
		_ = f.SetCellValue(expensesSheet, fmt.Sprintf("F%d", row), exp.CreatedAt.Format("02.01.2006 15:04"))
		total += exp.Amount
	}

	totalRow := len(expenses) + 2
	_ = f.SetCellValue(expensesSheet, fmt.Sprintf("C%d", totalRow), "Total")
	_ = f.SetCellValue(expensesSheet, fmt.Sprintf("D%d", totalRow), total)

	_ = f.SetColWidth(expensesSheet, "A", "A", 38)
	_ = f.SetColWidth(expensesSheet, "B", "C", 22)
	_ = f.SetColWidth(expensesSheet, "D", "D", 10)
	_ = f.SetColWidth(expensesSheet, "E", "E", 30)
	_ = f.SetColWidth(expensesSheet, "F", "F", 18)

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

// WriteReservations streams a reservations workbook, for HTTP downloads.
func (e *Exporter) WriteReservations(w io.Writer, reservations []models.Reservation) error {
	f, err := e.BuildReservationsWorkbook(reservations)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// WriteExpenses streams an expenses workbook, for HTTP downloads.
func (e *Exporter) WriteExpenses(w io.Writer, expenses []models.Expense) error {
	f, err := e.BuildExpensesWorkbook(expenses)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// MirrorToDisk rewrites the fixed-name mirror workbooks in the export
// directory. Called from the mirror worker after every ledger write.
func (e *Exporter) MirrorToDisk(reservations []models.Reservation, expenses []models.Expense) error {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return fmt.Errorf("error creating export directory: %v", err)
	}

	rf, err := e.BuildReservationsWorkbook(reservations)
	if err != nil {
		return err
	}
	defer rf.Close()

	bookingsPath := filepath.Join(e.path, "bookings.xlsx")
	if err := rf.SaveAs(bookingsPath); err != nil {
		return fmt.Errorf("error saving file: %v", err)
	}

	ef, err := e.BuildExpensesWorkbook(expenses)
	if err != nil {
		return err
	}
	defer ef.Close()

	expensesPath := filepath.Join(e.path, "expenses.xlsx")
	if err := ef.SaveAs(expensesPath); err != nil {
		return fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("bookings", bookingsPath).Str("expenses", expensesPath).Msg("mirror workbooks written")
	return nil
}

// SaveSnapshot writes a timestamped reservations export and returns its path.
func (e *Exporter) SaveSnapshot(reservations []models.Reservation) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f, err := e.BuildReservationsWorkbook(reservations)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}
