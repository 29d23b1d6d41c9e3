package export

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"pitchbook/internal/models"
	"pitchbook/internal/timeutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testExporter(t *testing.T) *Exporter {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewExporter(t.TempDir(), &logger)
}

func sampleReservations() []models.Reservation {
	return []models.Reservation{
		{
			ID:           "res-1",
			CustomerName: "Test Customer",
			Phone:        "+1234567890",
			Email:        "test@example.com",
			Date:         "2026-09-05",
			Interval:     timeutil.Interval{Start: 600, End: 660},
			Amount:       400,
			CreatedAt:    time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           "res-2",
			CustomerName: "Another Customer",
			Phone:        "+1987654321",
			Email:        "another@example.com",
			Date:         "2026-09-06",
			Interval:     timeutil.Interval{Start: 1080, End: 1200},
			Amount:       1000,
			CreatedAt:    time.Date(2026, 9, 2, 9, 30, 0, 0, time.UTC),
		},
	}
}

func TestBuildReservationsWorkbook(t *testing.T) {
	e := testExporter(t)

	f, err := e.BuildReservationsWorkbook(sampleReservations())
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(reservationsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Test Customer", got)

	got, err = f.GetCellValue(reservationsSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "10:00-11:00", got)

	got, err = f.GetCellValue(reservationsSheet, "G3")
	require.NoError(t, err)
	assert.Equal(t, "1000", got)

	header, err := f.GetCellValue(reservationsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)
}

func TestBuildExpensesWorkbookTotals(t *testing.T) {
	e := testExporter(t)

	expenses := []models.Expense{
		{ID: "exp-1", Item: "Turf repair", Category: "maintenance", Amount: 2500},
		{ID: "exp-2", Item: "Nets", Category: "equipment", Amount: 1800},
	}

	f, err := e.BuildExpensesWorkbook(expenses)
	require.NoError(t, err)
	defer f.Close()

	label, err := f.GetCellValue(expensesSheet, "C4")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)

	total, err := f.GetCellValue(expensesSheet, "D4")
	require.NoError(t, err)
	assert.Equal(t, "4300", total)
}

func TestWriteReservationsStream(t *testing.T) {
	e := testExporter(t)

	var buf bytes.Buffer
	require.NoError(t, e.WriteReservations(&buf, sampleReservations()))
	assert.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(reservationsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "res-1", got)
}

func TestMirrorToDisk(t *testing.T) {
	logger := zerolog.New(io.Discard)
	dir := t.TempDir()
	e := NewExporter(dir, &logger)

	require.NoError(t, e.MirrorToDisk(sampleReservations(), []models.Expense{
		{ID: "exp-1", Item: "Turf repair", Category: "maintenance", Amount: 2500},
	}))

	bookings, err := excelize.OpenFile(filepath.Join(dir, "bookings.xlsx"))
	require.NoError(t, err)
	defer bookings.Close()

	got, err := bookings.GetCellValue(reservationsSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-05", got)

	expenses, err := excelize.OpenFile(filepath.Join(dir, "expenses.xlsx"))
	require.NoError(t, err)
	defer expenses.Close()

	got, err = expenses.GetCellValue(expensesSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Turf repair", got)
}

func TestSaveSnapshot(t *testing.T) {
	e := testExporter(t)

	path, err := e.SaveSnapshot(sampleReservations())
	require.NoError(t, err)
	assert.Contains(t, path, "bookings_export_")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
}
