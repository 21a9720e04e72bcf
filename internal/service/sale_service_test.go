package service

import (
	"errors"
	"testing"

	"go-clinic-pos/internal/events"
	"go-clinic-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitSale(t *testing.T) {
	env := newTestEnv(t)
	shift := env.openShift(t, 1000)
	itemID := env.seedInventory(t, "Paracetamol", 0, 10)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, &itemID)

	order := env.cartWith(t, product, 2)
	tx, err := env.sales.Commit(order.ID, cash(116), "u-1", "cashier-1")
	require.NoError(t, err)

	assert.Equal(t, shift.ID, tx.ShiftID)
	assert.InDelta(t, 100, tx.Subtotal, 0.001)
	assert.InDelta(t, 16, tx.TaxTotal, 0.001)
	assert.InDelta(t, 116, tx.GrandTotal, 0.001)
	assert.InDelta(t, 0, tx.Change, 0.001)
	require.Len(t, tx.Lines, 1)
	assert.Equal(t, "Paracetamol 500mg", tx.Lines[0].Concept)
	require.Len(t, tx.Tenders, 1)

	// Stock came down and the movement references this transaction.
	available, err := env.inventory.AvailableQuantity(itemID)
	require.NoError(t, err)
	assert.Equal(t, 8, available)
	movements, err := env.inventory.GetMovements(itemID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.NotNil(t, movements[0].TransactionID)
	assert.Equal(t, tx.ID, *movements[0].TransactionID)

	// The transaction is on the books.
	stored, err := env.sales.GetTransaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, stored.ID)

	committed := env.recorder.byName("sale_committed")
	require.Len(t, committed, 1)
	assert.Equal(t, tx.ID, committed[0].(events.SaleCommitted).TransactionID)
}

func TestCommitRequiresOpenShift(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sales.Commit(uuid.New(), cash(100), "u-1", "cashier-1")
	require.ErrorIs(t, err, ErrRegisterClosed)
}

func TestCommitEmptyOrder(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)

	_, err = env.sales.Commit(order.ID, cash(100), "u-1", "cashier-1")
	require.Error(t, err)
}

func TestCommitPaymentShortfall(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddManualItem(order.ID, "Certificado médico", 132, 0)
	require.NoError(t, err)

	_, err = env.sales.Commit(order.ID, cash(100), "u-1", "cashier-1")
	require.ErrorIs(t, err, ErrInsufficientPayment)

	var shortfall *PaymentShortfallError
	require.True(t, errors.As(err, &shortfall))
	assert.InDelta(t, 32, shortfall.Remaining, 0.001)

	// Nothing hit the books and the cart survives for a retry.
	all, err := env.store.Transactions().FindAll()
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = env.orders.Get(order.ID)
	require.NoError(t, err)
}

func TestCommitWithinEpsilon(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddManualItem(order.ID, "Consulta", 100, 0)
	require.NoError(t, err)

	// A sub-cent rounding remainder is not a shortfall.
	tx, err := env.sales.Commit(order.ID, cash(99.995), "u-1", "cashier-1")
	require.NoError(t, err)
	assert.InDelta(t, 0, tx.Change, 0.001)
}

func TestCommitOverpaymentReturnsChange(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddManualItem(order.ID, "Consulta", 116, 0)
	require.NoError(t, err)

	tx, err := env.sales.Commit(order.ID, cash(150), "u-1", "cashier-1")
	require.NoError(t, err)
	assert.InDelta(t, 34, tx.Change, 0.001)
	assert.InDelta(t, 150, tx.CashTendered(), 0.001)
}

func TestCommitSplitTender(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddManualItem(order.ID, "Ultrasonido", 800, 0)
	require.NoError(t, err)

	tenders := []model.PaymentTender{
		{Method: model.PayCash, Amount: 300},
		{Method: model.PayDebitCard, Amount: 500},
	}
	tx, err := env.sales.Commit(order.ID, tenders, "u-1", "cashier-1")
	require.NoError(t, err)
	assert.Len(t, tx.Tenders, 2)
	assert.InDelta(t, 0, tx.Change, 0.001)
}

func TestCommitRejectsUnknownTenderMethod(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddManualItem(order.ID, "Consulta", 100, 0)
	require.NoError(t, err)

	_, err = env.sales.Commit(order.ID, []model.PaymentTender{{Method: "IOU", Amount: 100}}, "u-1", "cashier-1")
	require.Error(t, err)
}

func TestCommitIsAtomicOnStockShortage(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	itemA := env.seedInventory(t, "Paracetamol", 0, 10)
	itemB := env.seedInventory(t, "Ibuprofeno", 0, 5)
	productA := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 0, &itemA)
	productB := env.seedProduct(t, "IBU400", "Ibuprofeno 400mg", 35, 0, &itemB)

	order := env.cartWith(t, productA, 2)
	_, err := env.orders.AddItem(order.ID, productB.ID, 4, false)
	require.NoError(t, err)

	// Stock for B drains between carting and committing.
	_, err = env.inventory.Deduct(itemB, 3, "other terminal", nil, "cashier-2")
	require.NoError(t, err)

	_, err = env.sales.Commit(order.ID, cash(240), "u-1", "cashier-1")
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Neither item moved; no transaction exists.
	availableA, err := env.inventory.AvailableQuantity(itemA)
	require.NoError(t, err)
	assert.Equal(t, 10, availableA)
	availableB, err := env.inventory.AvailableQuantity(itemB)
	require.NoError(t, err)
	assert.Equal(t, 2, availableB)
	all, err := env.store.Transactions().FindAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCommitExpandsSupplies(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	syringeID := env.seedInventory(t, "Jeringa 5ml", 0, 20)
	injection := env.seedService(t, "INY01", "Aplicación de inyección", model.CategoryOther, 80, 0,
		model.CatalogSupply{InventoryItemID: syringeID, Quantity: 2})

	order := env.cartWith(t, injection, 3)
	_, err := env.sales.Commit(order.ID, cash(240), "u-1", "cashier-1")
	require.NoError(t, err)

	// 2 syringes per application, 3 applications.
	available, err := env.inventory.AvailableQuantity(syringeID)
	require.NoError(t, err)
	assert.Equal(t, 14, available)

	movements, err := env.inventory.GetMovements(syringeID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 6, movements[0].Quantity)
	assert.Equal(t, "supplies: Aplicación de inyección", movements[0].Reason)
}

func TestCommitEmitsStudiesOrderedForPatient(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	lab := env.seedService(t, "BH01", "Biometría hemática", model.CategoryLaboratory, 250, 0)
	xray := env.seedService(t, "RX01", "Radiografía de tórax", model.CategoryImaging, 400, 0)
	consult := env.seedService(t, "CONS01", "Consulta general", model.CategoryConsultation, 500, 0)

	patientID := uuid.New()
	order, err := env.orders.Create(&patientID, "cashier-1")
	require.NoError(t, err)
	for _, item := range []*model.CatalogItem{lab, xray, consult} {
		_, err = env.orders.AddItem(order.ID, item.ID, 1, false)
		require.NoError(t, err)
	}

	_, err = env.sales.Commit(order.ID, cash(1150), "u-1", "cashier-1")
	require.NoError(t, err)

	published := env.recorder.byName("studies_ordered_for_patient")
	require.Len(t, published, 1)
	event := published[0].(events.StudiesOrderedForPatient)
	assert.Equal(t, patientID, event.PatientID)
	// Only the lab and imaging lines count as studies.
	assert.Equal(t, []string{"Biometría hemática", "Radiografía de tórax"}, event.StudyNames)
}

func TestCommitWalkInNeverEmitsStudies(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	lab := env.seedService(t, "BH01", "Biometría hemática", model.CategoryLaboratory, 250, 0)

	order := env.cartWith(t, lab, 1)
	_, err := env.sales.Commit(order.ID, cash(250), "u-1", "cashier-1")
	require.NoError(t, err)

	assert.Empty(t, env.recorder.byName("studies_ordered_for_patient"))
}

func TestCommitShowsUpInShiftClose(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 1000)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddManualItem(order.ID, "Consulta", 500, 0)
	require.NoError(t, err)

	_, err = env.sales.Commit(order.ID, cash(600), "u-1", "cashier-1")
	require.NoError(t, err)

	closed, err := env.shifts.Close(1500, 0, "cashier-1")
	require.NoError(t, err)
	// 600 tendered minus 100 change.
	assert.InDelta(t, 500, closed.CashSales, 0.001)
	assert.InDelta(t, 1500, closed.ExpectedCash, 0.001)
	require.NotNil(t, closed.Discrepancy)
	assert.InDelta(t, 0, *closed.Discrepancy, 0.001)
}
