package repository

import (
	"sort"
	"sync"
	"time"

	"go-clinic-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Memory is an in-process store exposing the ledger repositories as
// views over one shared data set. It backs the test suite and ad-hoc
// tooling; the API process always runs on the gorm implementations.
type Memory struct {
	mu           sync.RWMutex
	catalog      []model.CatalogItem
	inventory    map[uuid.UUID]*model.InventoryItem
	invOrder     []uuid.UUID
	stockMoves   []model.StockMovement
	shifts       map[uuid.UUID]*model.Shift
	shiftOrder   []uuid.UUID
	movements    []model.CashMovement
	transactions []model.Transaction
}

func NewMemory() *Memory {
	return &Memory{
		inventory: make(map[uuid.UUID]*model.InventoryItem),
		shifts:    make(map[uuid.UUID]*model.Shift),
	}
}

// Repository views over the shared store.
func (m *Memory) Catalog() CatalogRepository          { return (*memCatalog)(m) }
func (m *Memory) Inventory() InventoryRepository      { return (*memInventory)(m) }
func (m *Memory) Shifts() ShiftRepository             { return (*memShifts)(m) }
func (m *Memory) Transactions() TransactionRepository { return (*memTransactions)(m) }

type (
	memCatalog      Memory
	memInventory    Memory
	memShifts       Memory
	memTransactions Memory
)

var (
	_ CatalogRepository     = (*memCatalog)(nil)
	_ InventoryRepository   = (*memInventory)(nil)
	_ ShiftRepository       = (*memShifts)(nil)
	_ TransactionRepository = (*memTransactions)(nil)
)

func stamp(base *model.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = time.Now()
	}
	base.UpdatedAt = time.Now()
}

// ---- CatalogRepository ----

func (m *memCatalog) Create(item *model.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&item.BaseModel)
	m.catalog = append(m.catalog, *item)
	return nil
}

func (m *memCatalog) FindAll() ([]model.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.CatalogItem, len(m.catalog))
	copy(out, m.catalog)
	return out, nil
}

func (m *memCatalog) FindByID(id uuid.UUID) (*model.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.catalog {
		if item.ID == id {
			clone := item
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCatalog) FindByCode(code string) (*model.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.catalog {
		if item.Code == code {
			clone := item
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ---- InventoryRepository ----

func cloneInventoryItem(item *model.InventoryItem) *model.InventoryItem {
	clone := *item
	clone.Lots = make([]model.Lot, len(item.Lots))
	copy(clone.Lots, item.Lots)
	return &clone
}

func (m *memInventory) Create(item *model.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&item.BaseModel)
	for i := range item.Lots {
		if item.Lots[i].ID == uuid.Nil {
			item.Lots[i].ID = uuid.New()
		}
		item.Lots[i].InventoryItemID = item.ID
	}
	m.inventory[item.ID] = cloneInventoryItem(item)
	m.invOrder = append(m.invOrder, item.ID)
	return nil
}

func (m *memInventory) FindAll() ([]model.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.InventoryItem, 0, len(m.invOrder))
	for _, id := range m.invOrder {
		out = append(out, *cloneInventoryItem(m.inventory[id]))
	}
	return out, nil
}

func (m *memInventory) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.inventory[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneInventoryItem(item), nil
}

func (m *memInventory) ApplyDeduction(item *model.InventoryItem, movement *model.StockMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.inventory[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	clone := cloneInventoryItem(item)
	clone.CreatedAt = stored.CreatedAt
	m.inventory[item.ID] = clone
	stamp(&movement.BaseModel)
	m.stockMoves = append(m.stockMoves, *movement)
	return nil
}

func (m *memInventory) FindMovementsByItem(itemID uuid.UUID) ([]model.StockMovement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.StockMovement
	for _, mv := range m.stockMoves {
		if mv.InventoryItemID == itemID {
			out = append(out, mv)
		}
	}
	return out, nil
}

// ---- ShiftRepository ----

func cloneShift(shift *model.Shift) *model.Shift {
	clone := *shift
	clone.Movements = make([]model.CashMovement, len(shift.Movements))
	copy(clone.Movements, shift.Movements)
	return &clone
}

func (m *memShifts) Create(shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&shift.BaseModel)
	m.shifts[shift.ID] = cloneShift(shift)
	m.shiftOrder = append(m.shiftOrder, shift.ID)
	return nil
}

func (m *memShifts) Update(shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[shift.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	shift.UpdatedAt = time.Now()
	m.shifts[shift.ID] = cloneShift(shift)
	return nil
}

func (m *memShifts) FindByID(id uuid.UUID) (*model.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shift, ok := m.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneShift(shift), nil
}

func (m *memShifts) FindAll() ([]model.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Shift, 0, len(m.shiftOrder))
	for _, id := range m.shiftOrder {
		out = append(out, *cloneShift(m.shifts[id]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OpenedAt.After(out[j].OpenedAt)
	})
	return out, nil
}

func (m *memShifts) FindOpen() ([]model.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Shift
	for _, id := range m.shiftOrder {
		if m.shifts[id].Status == model.ShiftOpen {
			out = append(out, *cloneShift(m.shifts[id]))
		}
	}
	return out, nil
}

func (m *memShifts) AddMovement(movement *model.CashMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[movement.ShiftID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stamp(&movement.BaseModel)
	shift.Movements = append(shift.Movements, *movement)
	m.movements = append(m.movements, *movement)
	return nil
}

func (m *memShifts) FindMovementsByShift(shiftID uuid.UUID) ([]model.CashMovement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.CashMovement
	for _, mv := range m.movements {
		if mv.ShiftID == shiftID {
			out = append(out, mv)
		}
	}
	return out, nil
}

// ---- TransactionRepository ----

func (m *memTransactions) Create(tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&tx.BaseModel)
	for i := range tx.Lines {
		tx.Lines[i].TransactionID = tx.ID
	}
	for i := range tx.Tenders {
		tx.Tenders[i].TransactionID = tx.ID
	}
	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *memTransactions) FindByID(id uuid.UUID) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.ID == id {
			clone := tx
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTransactions) FindAll() ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Transaction, len(m.transactions))
	copy(out, m.transactions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memTransactions) FindByShiftID(shiftID uuid.UUID) ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Transaction
	for _, tx := range m.transactions {
		if tx.ShiftID == shiftID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memTransactions) FindByDay(day time.Time) ([]model.Transaction, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Transaction
	for _, tx := range m.transactions {
		if !tx.CreatedAt.Before(start) && tx.CreatedAt.Before(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}
