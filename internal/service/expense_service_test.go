package service

import (
	"context"
	"io"
	"testing"

	"pitchbook/internal/events"
	"pitchbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestExpenseService(store *mockStore, bus *events.EventBus, mirror *mockMirror) *ExpenseService {
	logger := zerolog.New(io.Discard)

	var mw *mockMirror
	if mirror != nil {
		mw = mirror
	}
	if mw == nil {
		return NewExpenseService(store, bus, nil, &logger)
	}
	return NewExpenseService(store, bus, mw, &logger)
}

func TestRecordExpense(t *testing.T) {
	store := new(mockStore)
	mirror := new(mockMirror)
	bus := events.NewEventBus()
	svc := newTestExpenseService(store, bus, mirror)

	var published int
	bus.Subscribe(events.EventExpenseRecorded, func(e *events.Event) error {
		published++
		return nil
	})

	store.On("CreateExpense", mock.Anything, mock.AnythingOfType("*models.Expense")).Return(nil)
	mirror.On("EnqueueMirror", mock.Anything, "expense_recorded").Return(nil)

	e := &models.Expense{Item: "Turf repair", Category: "maintenance", Amount: 2500}
	require.NoError(t, svc.Record(context.Background(), e))

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 1, published)
	store.AssertExpectations(t)
	mirror.AssertExpectations(t)
}

func TestRecordExpenseValidation(t *testing.T) {
	store := new(mockStore)
	svc := newTestExpenseService(store, nil, nil)

	tests := []struct {
		name    string
		expense models.Expense
	}{
		{"missing item", models.Expense{Category: "maintenance", Amount: 100}},
		{"blank item", models.Expense{Item: "   ", Category: "maintenance", Amount: 100}},
		{"missing category", models.Expense{Item: "Turf repair", Amount: 100}},
		{"zero amount", models.Expense{Item: "Turf repair", Category: "maintenance"}},
		{"negative amount", models.Expense{Item: "Turf repair", Category: "maintenance", Amount: -50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Record(context.Background(), &tt.expense)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidExpense)
		})
	}

	store.AssertNotCalled(t, "CreateExpense", mock.Anything, mock.Anything)
}

func TestListExpenses(t *testing.T) {
	store := new(mockStore)
	svc := newTestExpenseService(store, nil, nil)

	store.On("ListExpenses", mock.Anything).Return([]models.Expense{
		{ID: "exp-2", Item: "Nets", Category: "equipment", Amount: 1800},
		{ID: "exp-1", Item: "Turf repair", Category: "maintenance", Amount: 2500},
	}, nil)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "exp-2", got[0].ID)
}
