package service

import (
	"testing"
	"time"

	"go-clinic-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenShiftFillsTheSingleSlot(t *testing.T) {
	env := newTestEnv(t)

	shift := env.openShift(t, 1000)
	assert.Equal(t, model.ShiftOpen, shift.Status)
	assert.Equal(t, 1000.0, shift.OpeningCash)
	assert.Equal(t, "cashier-1", shift.OpenedBy)

	current := env.shifts.Current()
	require.NotNil(t, current)
	assert.Equal(t, shift.ID, current.ID)
}

func TestOpenShiftIsExclusive(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 500)

	_, err := env.shifts.Open(300, "cashier-2")
	require.ErrorIs(t, err, ErrShiftAlreadyOpen)
}

func TestOpenShiftRejectsNegativeFloat(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.shifts.Open(-1, "cashier-1")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestOpenShiftDetectsForeignOpenRow(t *testing.T) {
	env := newTestEnv(t)

	// An open row the slot never created means another writer broke
	// exclusivity.
	rogue := &model.Shift{Status: model.ShiftOpen, OpenedAt: time.Now(), OpenedBy: "other"}
	require.NoError(t, env.store.Shifts().Create(rogue))

	_, err := env.shifts.Open(100, "cashier-1")
	require.ErrorIs(t, err, ErrShiftIntegrity)
}

func TestRestoreReadoptsOpenShift(t *testing.T) {
	env := newTestEnv(t)
	opened := env.openShift(t, 250)

	// A fresh service instance over the same storage, as after a
	// process restart.
	restarted := NewShiftService(env.store.Shifts(), env.store.Transactions(), env.recorder)
	require.NoError(t, restarted.Restore())

	current := restarted.Current()
	require.NotNil(t, current)
	assert.Equal(t, opened.ID, current.ID)
}

func TestRecordMovementRequiresOpenShift(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.shifts.RecordMovement(model.CashIn, 100, "fondo extra", "cashier-1")
	require.ErrorIs(t, err, ErrRegisterClosed)
}

func TestRecordMovementValidation(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)

	_, err := env.shifts.RecordMovement(model.CashIn, 0, "nada", "cashier-1")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = env.shifts.RecordMovement("SIDEWAYS", 10, "nada", "cashier-1")
	require.Error(t, err)
}

func TestCloseReconciliation(t *testing.T) {
	env := newTestEnv(t)
	shift := env.openShift(t, 1000)

	_, err := env.shifts.RecordMovement(model.CashIn, 200, "cambio de caja", "cashier-1")
	require.NoError(t, err)
	_, err = env.shifts.RecordMovement(model.CashOut, 150, "pago a proveedor", "cashier-1")
	require.NoError(t, err)

	// One cash sale with change given, one card sale. Cash sales count
	// net of change handed back.
	cashTx := &model.Transaction{
		Category:   model.TxSale,
		ShiftID:    shift.ID,
		GrandTotal: 500,
		Change:     80,
		Tenders:    []model.PaymentTender{{Method: model.PayCash, Amount: 580}},
	}
	require.NoError(t, env.store.Transactions().Create(cashTx))
	cardTx := &model.Transaction{
		Category:   model.TxSale,
		ShiftID:    shift.ID,
		GrandTotal: 300,
		Tenders:    []model.PaymentTender{{Method: model.PayCreditCard, Amount: 300}},
	}
	require.NoError(t, env.store.Transactions().Create(cardTx))

	closed, err := env.shifts.Close(1540, 1000, "cashier-1")
	require.NoError(t, err)

	assert.Equal(t, model.ShiftClosed, closed.Status)
	assert.InDelta(t, 500, closed.CashSales, 0.001)
	assert.InDelta(t, 300, closed.CardSales, 0.001)
	assert.InDelta(t, 200, closed.CashIn, 0.001)
	assert.InDelta(t, 150, closed.CashOut, 0.001)
	// expected = opening + cash sales + in - out = 1000+500+200-150
	assert.InDelta(t, 1550, closed.ExpectedCash, 0.001)
	require.NotNil(t, closed.Discrepancy)
	assert.InDelta(t, -10, *closed.Discrepancy, 0.001)
	require.NotNil(t, closed.RetainedCash)
	assert.InDelta(t, 1000, *closed.RetainedCash, 0.001)
	assert.Equal(t, 2, closed.SaleCount)
}

func TestCloseFreesTheSlot(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)

	_, err := env.shifts.Close(100, 0, "cashier-1")
	require.NoError(t, err)
	assert.Nil(t, env.shifts.Current())

	// The drawer can open again for the next shift.
	_, err = env.shifts.Open(50, "cashier-2")
	require.NoError(t, err)
}

func TestCloseRequiresOpenShift(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.shifts.Close(0, 0, "cashier-1")
	require.ErrorIs(t, err, ErrRegisterClosed)
}

func TestCloseNeverBlocksOnDiscrepancy(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 1000)

	// Declared wildly off: the close still goes through, the
	// discrepancy is reported on the record.
	closed, err := env.shifts.Close(0, 0, "cashier-1")
	require.NoError(t, err)
	require.NotNil(t, closed.Discrepancy)
	assert.InDelta(t, -1000, *closed.Discrepancy, 0.001)
}

func TestShiftLifecycleEvents(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	_, err := env.shifts.Close(100, 0, "cashier-1")
	require.NoError(t, err)

	assert.Len(t, env.recorder.byName("shift_opened"), 1)
	assert.Len(t, env.recorder.byName("shift_closed"), 1)
}
