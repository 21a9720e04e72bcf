package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateLineRequest carries optional line edits. A price change
// preserves the line's effective tax rate; an explicit tax percent
// overrides it.
type UpdateLineRequest struct {
	Quantity   *int     `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TaxPercent *float64 `json:"tax_percent"`
}

// OrderService builds carts for in-progress sales. Orders live in
// memory only: each is consumed exactly once by a successful commit or
// discarded. Every mutation requires an open shift.
type OrderService interface {
	Create(patientID *uuid.UUID, cashier string) (*model.Order, error)
	Get(orderID uuid.UUID) (*model.Order, error)
	AddItem(orderID, catalogItemID uuid.UUID, quantity int, forceNewLine bool) (*model.Order, error)
	AddManualItem(orderID uuid.UUID, description string, unitPrice, taxPercent float64) (*model.Order, error)
	UpdateLine(orderID uuid.UUID, index int, req UpdateLineRequest) (*model.Order, error)
	RemoveLine(orderID uuid.UUID, index int) (*model.Order, error)
	SetDiscount(orderID uuid.UUID, percent float64) (*model.Order, error)
	SetNotes(orderID uuid.UUID, notes string) (*model.Order, error)
	AttachPatient(orderID uuid.UUID, patientID *uuid.UUID) (*model.Order, error)
	Totals(orderID uuid.UUID) (model.OrderTotals, error)
	Discard(orderID uuid.UUID)
}

type orderService struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]*model.Order
	catalogRepo repository.CatalogRepository
	inventory   InventoryService
	shifts      ShiftService
}

func NewOrderService(catalogRepo repository.CatalogRepository, inventory InventoryService, shifts ShiftService) OrderService {
	return &orderService{
		orders:      make(map[uuid.UUID]*model.Order),
		catalogRepo: catalogRepo,
		inventory:   inventory,
		shifts:      shifts,
	}
}

// requireOpenShift gates every cart mutation on the drawer state.
func (s *orderService) requireOpenShift() error {
	if s.shifts.Current() == nil {
		return ErrRegisterClosed
	}
	return nil
}

func (s *orderService) Create(patientID *uuid.UUID, cashier string) (*model.Order, error) {
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:        uuid.New(),
		PatientID: patientID,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
	return order, nil
}

func (s *orderService) Get(orderID uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked(orderID)
}

// locked fetches an order; the caller must hold s.mu.
func (s *orderService) locked(orderID uuid.UUID) (*model.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return order, nil
}

func (s *orderService) AddItem(orderID, catalogItemID uuid.UUID, quantity int, forceNewLine bool) (*model.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	item, err := s.catalogRepo.FindByID(catalogItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("catalog item %s: %w", catalogItemID, ErrNotFound)
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return nil, err
	}

	// Linked items must fit within the stock still uncommitted by this
	// cart: available >= already carted for that link + the new amount.
	if item.InventoryItemID != nil {
		available, err := s.inventory.AvailableQuantity(*item.InventoryItemID)
		if err != nil {
			return nil, err
		}
		carted := order.QuantityCarted(*item.InventoryItemID)
		if available < carted+quantity {
			return nil, fmt.Errorf("%w: %q has %d available, cart needs %d",
				ErrInsufficientStock, item.Name, available, carted+quantity)
		}
	}

	// Merge into an existing line when concept and price match, unless
	// the caller forces a separate line (imported/duplicate charges).
	if !forceNewLine {
		for i := range order.Lines {
			line := &order.Lines[i]
			if line.Concept == item.Name && line.UnitPrice == item.UnitPrice {
				line.Quantity += quantity
				line.Recalculate()
				return order, nil
			}
		}
	}

	line := model.LineItem{
		ID:              uuid.New(),
		Concept:         item.Name,
		Category:        item.Category,
		Quantity:        quantity,
		UnitPrice:       item.UnitPrice,
		TaxPerUnit:      item.UnitPrice * item.TaxPercent / 100,
		Status:          model.LinePending,
		InventoryItemID: item.InventoryItemID,
		CatalogItemID:   &item.ID,
	}
	line.Recalculate()
	order.Lines = append(order.Lines, line)
	return order, nil
}

func (s *orderService) AddManualItem(orderID uuid.UUID, description string, unitPrice, taxPercent float64) (*model.Order, error) {
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return nil, err
	}

	// Manual entries never link to inventory.
	line := model.LineItem{
		ID:         uuid.New(),
		Concept:    description,
		Category:   model.CategoryOther,
		Quantity:   1,
		UnitPrice:  unitPrice,
		TaxPerUnit: unitPrice * taxPercent / 100,
		Status:     model.LinePending,
	}
	line.Recalculate()
	order.Lines = append(order.Lines, line)
	return order, nil
}

func (s *orderService) UpdateLine(orderID uuid.UUID, index int, req UpdateLineRequest) (*model.Order, error) {
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(order.Lines) {
		return nil, ErrLineOutOfRange
	}
	line := &order.Lines[index]

	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		line.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		// Keep the tax rate the line already carries and reapply it to
		// the new price.
		rate := line.EffectiveTaxPercent()
		line.UnitPrice = *req.UnitPrice
		line.TaxPerUnit = *req.UnitPrice * rate / 100
	}
	if req.TaxPercent != nil {
		line.TaxPerUnit = line.UnitPrice * *req.TaxPercent / 100
	}

	line.Recalculate()
	return order, nil
}

func (s *orderService) RemoveLine(orderID uuid.UUID, index int) (*model.Order, error) {
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(order.Lines) {
		return nil, ErrLineOutOfRange
	}

	order.Lines = append(order.Lines[:index], order.Lines[index+1:]...)
	return order, nil
}

func (s *orderService) SetDiscount(orderID uuid.UUID, percent float64) (*model.Order, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("discount percent %.2f out of range", percent)
	}
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return nil, err
	}
	order.DiscountPercent = percent
	return order, nil
}

func (s *orderService) SetNotes(orderID uuid.UUID, notes string) (*model.Order, error) {
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return nil, err
	}
	order.Notes = notes
	return order, nil
}

func (s *orderService) AttachPatient(orderID uuid.UUID, patientID *uuid.UUID) (*model.Order, error) {
	if err := s.requireOpenShift(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return nil, err
	}
	order.PatientID = patientID
	return order, nil
}

func (s *orderService) Totals(orderID uuid.UUID) (model.OrderTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.locked(orderID)
	if err != nil {
		return model.OrderTotals{}, err
	}
	return order.Totals(), nil
}

func (s *orderService) Discard(orderID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, orderID)
}
