package service

import (
	"testing"
	"time"

	"go-clinic-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory stores one closed shift with a movement and two sales at
// fixed timestamps:
//
//	09:00 shift opened, 10:00 cash sale 116 (change 4),
//	11:00 cash out 150, 12:00 card sale 300, 14:00 shift closed.
func seedHistory(t *testing.T, env *testEnv) *model.Shift {
	t.Helper()

	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	at := func(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

	closedAt := at(14)
	declared := 900.0
	shift := &model.Shift{
		Status:   model.ShiftClosed,
		OpenedAt: at(9),
		OpenedBy: "cashier-1",

		OpeningCash:  1000,
		ClosedAt:     &closedAt,
		ClosedBy:     "cashier-1",
		DeclaredCash: &declared,
	}
	require.NoError(t, env.store.Shifts().Create(shift))

	movement := &model.CashMovement{
		ShiftID:       shift.ID,
		Direction:     model.CashOut,
		Amount:        150,
		Reason:        "pago a proveedor",
		ResponsibleBy: "cashier-1",
	}
	movement.CreatedAt = at(11)
	require.NoError(t, env.store.Shifts().AddMovement(movement))

	cashTx := &model.Transaction{
		Category:   model.TxSale,
		ShiftID:    shift.ID,
		GrandTotal: 112,
		Change:     4,
		CashierID:  "u-1",
		Tenders:    []model.PaymentTender{{Method: model.PayCash, Amount: 116}},
	}
	cashTx.CreatedAt = at(10)
	require.NoError(t, env.store.Transactions().Create(cashTx))

	cardTx := &model.Transaction{
		Category:   model.TxSale,
		ShiftID:    shift.ID,
		GrandTotal: 300,
		CashierID:  "u-1",
		Tenders:    []model.PaymentTender{{Method: model.PayCreditCard, Amount: 300}},
	}
	cardTx.CreatedAt = at(12)
	require.NoError(t, env.store.Transactions().Create(cardTx))

	return shift
}

func TestFeedMergesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)

	feed, err := env.history.Feed(nil)
	require.NoError(t, err)

	require.Len(t, feed, 5)
	types := make([]HistoryEventType, len(feed))
	for i, e := range feed {
		types[i] = e.Type
	}
	assert.Equal(t, []HistoryEventType{
		EventShiftClose,
		EventSale,
		EventCashMovement,
		EventSale,
		EventShiftOpen,
	}, types)

	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i-1].Timestamp.Before(feed[i].Timestamp),
			"feed out of order at %d", i)
	}
}

func TestFeedFilterByType(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)

	sales, err := env.history.Feed([]HistoryEventType{EventSale})
	require.NoError(t, err)
	require.Len(t, sales, 2)
	for _, e := range sales {
		assert.Equal(t, EventSale, e.Type)
	}

	lifecycle, err := env.history.Feed([]HistoryEventType{EventShiftOpen, EventShiftClose})
	require.NoError(t, err)
	assert.Len(t, lifecycle, 2)
}

func TestFeedCashMovementLabels(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)

	movements, err := env.history.Feed([]HistoryEventType{EventCashMovement})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "cash out: pago a proveedor", movements[0].Label)
	assert.InDelta(t, 150, movements[0].Amount, 0.001)
}

func TestDaySummary(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)

	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	summary, err := env.history.DaySummary(day)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-12", summary.Day)
	assert.Equal(t, 2, summary.SaleCount)
	assert.InDelta(t, 412, summary.GrandTotal, 0.001)
	// 116 tendered in cash minus 4 change.
	assert.InDelta(t, 112, summary.CashTotal, 0.001)
	assert.InDelta(t, 300, summary.CardTotal, 0.001)
	assert.InDelta(t, 0, summary.TransferTotal, 0.001)
}

func TestDaySummaryEmptyDay(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)

	summary, err := env.history.DaySummary(time.Date(2026, 3, 13, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SaleCount)
	assert.InDelta(t, 0, summary.GrandTotal, 0.001)
}
