package service

import (
	"testing"

	"go-clinic-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartMutationRequiresOpenShift(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, nil)

	_, err := env.orders.Create(nil, "cashier-1")
	require.ErrorIs(t, err, ErrRegisterClosed)

	// Same gate once a cart exists but the drawer has closed since.
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.shifts.Close(100, 0, "cashier-1")
	require.NoError(t, err)

	_, err = env.orders.AddItem(order.ID, product.ID, 1, false)
	require.ErrorIs(t, err, ErrRegisterClosed)
	_, err = env.orders.SetDiscount(order.ID, 10)
	require.ErrorIs(t, err, ErrRegisterClosed)
}

func TestAddItemBuildsLineFromCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, nil)

	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	order, err = env.orders.AddItem(order.ID, product.ID, 2, false)
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	line := order.Lines[0]
	assert.Equal(t, "Paracetamol 500mg", line.Concept)
	assert.Equal(t, 2, line.Quantity)
	assert.InDelta(t, 50, line.UnitPrice, 0.001)
	assert.InDelta(t, 8, line.TaxPerUnit, 0.001) // 16% of 50
	assert.InDelta(t, 116, line.Total, 0.001)
}

func TestAddItemMergesMatchingLines(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, nil)

	order := env.cartWith(t, product, 2)
	order, err := env.orders.AddItem(order.ID, product.ID, 3, false)
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 5, order.Lines[0].Quantity)

	// forceNewLine keeps the charges separate.
	order, err = env.orders.AddItem(order.ID, product.ID, 1, true)
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
}

func TestAddItemDoesNotMergeAfterPriceEdit(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, nil)

	order := env.cartWith(t, product, 1)
	newPrice := 40.0
	_, err := env.orders.UpdateLine(order.ID, 0, UpdateLineRequest{UnitPrice: &newPrice})
	require.NoError(t, err)

	// The edited line no longer matches the catalog price.
	order, err = env.orders.AddItem(order.ID, product.ID, 1, false)
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
}

func TestAddItemGatesOnAvailableStock(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	itemID := env.seedInventory(t, "Ibuprofeno", 0, 3)
	product := env.seedProduct(t, "IBU400", "Ibuprofeno 400mg", 35, 16, &itemID)

	order := env.cartWith(t, product, 2)

	// 2 already carted + 2 more > 3 available.
	_, err := env.orders.AddItem(order.ID, product.ID, 2, false)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// One more still fits.
	order, err = env.orders.AddItem(order.ID, product.ID, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 3, order.Lines[0].Quantity)
}

func TestAddItemUnknownCatalogEntry(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)

	_, err = env.orders.AddItem(order.ID, uuid.New(), 1, false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddManualItem(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)

	order, err = env.orders.AddManualItem(order.ID, "Copia de receta", 30, 0)
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	line := order.Lines[0]
	assert.Equal(t, 1, line.Quantity)
	assert.Nil(t, line.InventoryItemID)
	assert.Nil(t, line.CatalogItemID)
	assert.InDelta(t, 30, line.Total, 0.001)
}

func TestOrderTotalsDiscountNeverTouchesTax(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	consult := env.seedService(t, "CONS01", "Consulta general", model.CategoryConsultation, 500, 0)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, nil)

	order := env.cartWith(t, consult, 1)
	_, err := env.orders.AddItem(order.ID, product.ID, 2, false)
	require.NoError(t, err)
	_, err = env.orders.SetDiscount(order.ID, 10)
	require.NoError(t, err)

	totals, err := env.orders.Totals(order.ID)
	require.NoError(t, err)

	// subtotal 500 + 100, tax 16, discount 10% of subtotal only
	assert.InDelta(t, 600, totals.Subtotal, 0.001)
	assert.InDelta(t, 16, totals.TaxTotal, 0.001)
	assert.InDelta(t, 60, totals.DiscountValue, 0.001)
	assert.InDelta(t, 556, totals.GrandTotal, 0.001)
}

func TestSetDiscountRange(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)

	_, err = env.orders.SetDiscount(order.ID, -1)
	require.Error(t, err)
	_, err = env.orders.SetDiscount(order.ID, 101)
	require.Error(t, err)
	_, err = env.orders.SetDiscount(order.ID, 100)
	require.NoError(t, err)
}

func TestUpdateLinePricePreservesTaxRate(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 100, 16, nil)

	order := env.cartWith(t, product, 1)
	newPrice := 200.0
	order, err := env.orders.UpdateLine(order.ID, 0, UpdateLineRequest{UnitPrice: &newPrice})
	require.NoError(t, err)

	line := order.Lines[0]
	assert.InDelta(t, 200, line.UnitPrice, 0.001)
	assert.InDelta(t, 32, line.TaxPerUnit, 0.001) // the 16% rate follows the price
}

func TestUpdateLineZeroPriceFallsBackToStandardRate(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddManualItem(order.ID, "Ajuste", 0, 0)
	require.NoError(t, err)

	newPrice := 100.0
	order, err = env.orders.UpdateLine(order.ID, 0, UpdateLineRequest{UnitPrice: &newPrice})
	require.NoError(t, err)

	// No rate can be derived from a zero price; the standard applies.
	assert.InDelta(t, 16, order.Lines[0].TaxPerUnit, 0.001)
}

func TestUpdateLineExplicitTaxOverride(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 100, 16, nil)

	order := env.cartWith(t, product, 1)
	zero := 0.0
	order, err := env.orders.UpdateLine(order.ID, 0, UpdateLineRequest{TaxPercent: &zero})
	require.NoError(t, err)
	assert.InDelta(t, 0, order.Lines[0].TaxPerUnit, 0.001)
}

func TestUpdateLineValidation(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, nil)
	order := env.cartWith(t, product, 1)

	zero := 0
	_, err := env.orders.UpdateLine(order.ID, 0, UpdateLineRequest{Quantity: &zero})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.orders.UpdateLine(order.ID, 5, UpdateLineRequest{})
	require.ErrorIs(t, err, ErrLineOutOfRange)
}

func TestRemoveLine(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	product := env.seedProduct(t, "PAR500", "Paracetamol 500mg", 50, 16, nil)
	order := env.cartWith(t, product, 1)
	_, err := env.orders.AddManualItem(order.ID, "Extra", 10, 0)
	require.NoError(t, err)

	order, err = env.orders.RemoveLine(order.ID, 0)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Extra", order.Lines[0].Concept)

	_, err = env.orders.RemoveLine(order.ID, 3)
	require.ErrorIs(t, err, ErrLineOutOfRange)
}

func TestAttachPatient(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)

	patientID := uuid.New()
	order, err = env.orders.AttachPatient(order.ID, &patientID)
	require.NoError(t, err)
	require.NotNil(t, order.PatientID)
	assert.Equal(t, patientID, *order.PatientID)

	// Detaching turns the sale back into a walk-in.
	order, err = env.orders.AttachPatient(order.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, order.PatientID)
}

func TestDiscardDropsTheCart(t *testing.T) {
	env := newTestEnv(t)
	env.openShift(t, 100)
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)

	env.orders.Discard(order.ID)
	_, err = env.orders.Get(order.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
