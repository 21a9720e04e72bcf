package service

import (
	"testing"

	"go-clinic-pos/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeductConsumesLotsInListOrder(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.seedInventory(t, "Jeringa 5ml", 0, 5, 10, 8)

	item, err := env.inventory.Deduct(itemID, 12, "sale", nil, "cashier-1")
	require.NoError(t, err)

	// First lot drained, second partially consumed, third untouched.
	require.Len(t, item.Lots, 3)
	assert.Equal(t, 0, item.Lots[0].Quantity)
	assert.Equal(t, 3, item.Lots[1].Quantity)
	assert.Equal(t, 8, item.Lots[2].Quantity)
	assert.Equal(t, 11, item.AvailableQuantity())

	// The drained lot stays on record.
	stored, err := env.inventory.GetItem(itemID)
	require.NoError(t, err)
	assert.Len(t, stored.Lots, 3)
}

func TestDeductRecordsOneMovement(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.seedInventory(t, "Gasas", 0, 20)
	txID := uuid.New()

	_, err := env.inventory.Deduct(itemID, 7, "sale: Curación", &txID, "cashier-1")
	require.NoError(t, err)

	movements, err := env.inventory.GetMovements(itemID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 7, movements[0].Quantity)
	assert.Equal(t, "sale: Curación", movements[0].Reason)
	require.NotNil(t, movements[0].TransactionID)
	assert.Equal(t, txID, *movements[0].TransactionID)
	assert.Equal(t, "cashier-1", movements[0].ResponsibleBy)
}

func TestDeductInsufficientStockLeavesItemUntouched(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.seedInventory(t, "Guantes", 0, 2, 3)

	_, err := env.inventory.Deduct(itemID, 6, "sale", nil, "cashier-1")
	require.ErrorIs(t, err, ErrInsufficientStock)

	item, err := env.inventory.GetItem(itemID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Lots[0].Quantity)
	assert.Equal(t, 3, item.Lots[1].Quantity)

	movements, err := env.inventory.GetMovements(itemID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestDeductRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.seedInventory(t, "Alcohol", 0, 10)

	_, err := env.inventory.Deduct(itemID, 0, "sale", nil, "cashier-1")
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.inventory.Deduct(itemID, -3, "sale", nil, "cashier-1")
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestDeductUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inventory.Deduct(uuid.New(), 1, "sale", nil, "cashier-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeductEmitsLowStockAtMinimum(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.seedInventory(t, "Reactivo", 5, 6)

	_, err := env.inventory.Deduct(itemID, 2, "sale", nil, "cashier-1")
	require.NoError(t, err)

	alerts := env.recorder.byName("low_stock")
	require.Len(t, alerts, 1)
	alert := alerts[0].(events.LowStock)
	assert.Equal(t, itemID, alert.InventoryItemID)
	assert.Equal(t, 4, alert.Available)
	assert.Equal(t, 5, alert.MinStock)
}

func TestDeductAboveMinimumStaysQuiet(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.seedInventory(t, "Reactivo", 2, 10)

	_, err := env.inventory.Deduct(itemID, 3, "sale", nil, "cashier-1")
	require.NoError(t, err)
	assert.Empty(t, env.recorder.byName("low_stock"))
}
