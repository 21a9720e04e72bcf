package service

import (
	"errors"
	"fmt"

	"go-clinic-pos/internal/events"
	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService is the stock ledger: availability queries plus the
// atomic lot deduction triggered by a sale. Lot creation and
// replenishment belong to the inventory-editing module, not here.
type InventoryService interface {
	GetAllItems() ([]model.InventoryItem, error)
	GetItem(id uuid.UUID) (*model.InventoryItem, error)
	AvailableQuantity(itemID uuid.UUID) (int, error)

	// Deduct consumes lots in stored list order until quantity is
	// satisfied. All-or-nothing: when available stock is short the item
	// is left untouched and ErrInsufficientStock returned. Exactly one
	// StockMovement is appended per successful call.
	Deduct(itemID uuid.UUID, quantity int, reason string, transactionID *uuid.UUID, responsible string) (*model.InventoryItem, error)

	GetMovements(itemID uuid.UUID) ([]model.StockMovement, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	publisher     events.Publisher
}

func NewInventoryService(inventoryRepo repository.InventoryRepository, publisher events.Publisher) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		publisher:     publisher,
	}
}

func (s *inventoryService) GetAllItems() ([]model.InventoryItem, error) {
	return s.inventoryRepo.FindAll()
}

func (s *inventoryService) GetItem(id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
	}
	return item, err
}

func (s *inventoryService) AvailableQuantity(itemID uuid.UUID) (int, error) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return 0, err
	}
	return item.AvailableQuantity(), nil
}

func (s *inventoryService) Deduct(itemID uuid.UUID, quantity int, reason string, transactionID *uuid.UUID, responsible string) (*model.InventoryItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// 1. Load the item with its lots in consumption order
	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	// 2. Availability check: fail before touching any lot
	if item.AvailableQuantity() < quantity {
		return nil, fmt.Errorf("%w: item %q has %d, need %d",
			ErrInsufficientStock, item.Name, item.AvailableQuantity(), quantity)
	}

	// 3. Consume lots in list order. Zero lots stay on record.
	remaining := quantity
	for i := range item.Lots {
		if remaining == 0 {
			break
		}
		lot := &item.Lots[i]
		take := lot.Quantity
		if take > remaining {
			take = remaining
		}
		lot.Quantity -= take
		remaining -= take
	}

	// 4. Persist lots and audit movement together
	movement := &model.StockMovement{
		InventoryItemID: itemID,
		Direction:       model.MovementOut,
		Quantity:        quantity,
		Reason:          reason,
		TransactionID:   transactionID,
		ResponsibleBy:   responsible,
	}
	movement.CreatedBy = responsible
	if err := s.inventoryRepo.ApplyDeduction(item, movement); err != nil {
		return nil, err
	}

	// 5. Warn the terminals when the item hits its minimum
	if available := item.AvailableQuantity(); available <= item.MinStock {
		s.publisher.Publish(events.LowStock{
			InventoryItemID: itemID,
			ItemName:        item.Name,
			Available:       available,
			MinStock:        item.MinStock,
		})
	}

	return item, nil
}

func (s *inventoryService) GetMovements(itemID uuid.UUID) ([]model.StockMovement, error) {
	return s.inventoryRepo.FindMovementsByItem(itemID)
}
