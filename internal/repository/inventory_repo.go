package repository

import (
	"go-clinic-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(item *model.InventoryItem) error
	FindAll() ([]model.InventoryItem, error)
	FindByID(id uuid.UUID) (*model.InventoryItem, error)

	// ApplyDeduction persists the mutated lot quantities together with
	// the stock movement in one database transaction.
	ApplyDeduction(item *model.InventoryItem, movement *model.StockMovement) error

	FindMovementsByItem(itemID uuid.UUID) ([]model.StockMovement, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) Create(item *model.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *inventoryRepo) FindAll() ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Preload("Lots", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) FindByID(id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.Preload("Lots", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) ApplyDeduction(item *model.InventoryItem, movement *model.StockMovement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range item.Lots {
			lot := &item.Lots[i]
			if err := tx.Model(&model.Lot{}).Where("id = ?", lot.ID).
				Update("quantity", lot.Quantity).Error; err != nil {
				return err
			}
		}
		return tx.Create(movement).Error
	})
}

func (r *inventoryRepo) FindMovementsByItem(itemID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Where("inventory_item_id = ?", itemID).
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}
