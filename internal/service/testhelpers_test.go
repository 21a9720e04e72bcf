package service

import (
	"sync"
	"testing"

	"go-clinic-pos/internal/events"
	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// eventRecorder captures everything the services publish.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) byName(name string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

// testEnv wires the full service stack over the in-memory store.
type testEnv struct {
	store     *repository.Memory
	recorder  *eventRecorder
	inventory InventoryService
	shifts    ShiftService
	orders    OrderService
	sales     SaleService
	history   HistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemory()
	recorder := &eventRecorder{}

	inventory := NewInventoryService(store.Inventory(), recorder)
	shifts := NewShiftService(store.Shifts(), store.Transactions(), recorder)
	orders := NewOrderService(store.Catalog(), inventory, shifts)
	sales := NewSaleService(orders, shifts, inventory, store.Catalog(), store.Transactions(), recorder, 0)
	history := NewHistoryService(store.Transactions(), store.Shifts())

	return &testEnv{
		store:     store,
		recorder:  recorder,
		inventory: inventory,
		shifts:    shifts,
		orders:    orders,
		sales:     sales,
		history:   history,
	}
}

// seedInventory creates an item whose lots hold the given quantities,
// in consumption order.
func (env *testEnv) seedInventory(t *testing.T, name string, minStock int, lotQuantities ...int) uuid.UUID {
	t.Helper()

	item := &model.InventoryItem{
		Name:     name,
		Unit:     "pz",
		MinStock: minStock,
	}
	for i, qty := range lotQuantities {
		item.Lots = append(item.Lots, model.Lot{Quantity: qty, Position: i})
	}
	require.NoError(t, env.store.Inventory().Create(item))
	return item.ID
}

// seedProduct creates a catalog product, optionally linked to stock.
func (env *testEnv) seedProduct(t *testing.T, code, name string, price, taxPercent float64, inventoryItemID *uuid.UUID) *model.CatalogItem {
	t.Helper()

	item := &model.CatalogItem{
		Code:            code,
		Name:            name,
		Kind:            model.KindProduct,
		Category:        model.CategoryPharmacy,
		UnitPrice:       price,
		TaxPercent:      taxPercent,
		InventoryItemID: inventoryItemID,
	}
	require.NoError(t, env.store.Catalog().Create(item))
	return item
}

// seedService creates a catalog service with optional supply links.
func (env *testEnv) seedService(t *testing.T, code, name, category string, price, taxPercent float64, supplies ...model.CatalogSupply) *model.CatalogItem {
	t.Helper()

	item := &model.CatalogItem{
		Code:       code,
		Name:       name,
		Kind:       model.KindService,
		Category:   category,
		UnitPrice:  price,
		TaxPercent: taxPercent,
		Supplies:   supplies,
	}
	require.NoError(t, env.store.Catalog().Create(item))
	return item
}

// openShift opens the drawer with the given float.
func (env *testEnv) openShift(t *testing.T, openingCash float64) *model.Shift {
	t.Helper()
	shift, err := env.shifts.Open(openingCash, "cashier-1")
	require.NoError(t, err)
	return shift
}

// cartWith builds an order holding the given catalog item.
func (env *testEnv) cartWith(t *testing.T, item *model.CatalogItem, quantity int) *model.Order {
	t.Helper()
	order, err := env.orders.Create(nil, "cashier-1")
	require.NoError(t, err)
	_, err = env.orders.AddItem(order.ID, item.ID, quantity, false)
	require.NoError(t, err)
	return order
}

func cash(amount float64) []model.PaymentTender {
	return []model.PaymentTender{{Method: model.PayCash, Amount: amount}}
}
