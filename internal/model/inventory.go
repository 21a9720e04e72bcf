package model

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem owns a list of expiry-dated lots. Available stock is the
// sum of lot quantities; the item row itself never stores a quantity.
type InventoryItem struct {
	BaseModel
	Name       string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit       string `gorm:"type:varchar(20)" json:"unit"`
	MinStock   int    `gorm:"default:0" json:"min_stock"`
	IdealStock int    `gorm:"default:0" json:"ideal_stock"`

	Lots []Lot `gorm:"foreignKey:InventoryItemID" json:"lots"`
}

// AvailableQuantity sums the quantities of every lot.
func (i *InventoryItem) AvailableQuantity() int {
	total := 0
	for _, lot := range i.Lots {
		total += lot.Quantity
	}
	return total
}

// Lot is a dated batch of an inventory item. Position fixes the order
// lots are consumed in; a lot that reaches zero is kept as a record,
// never deleted.
type Lot struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryItemID uuid.UUID  `gorm:"type:uuid;index;not null" json:"inventory_item_id"`
	LotNumber       string     `gorm:"type:varchar(50)" json:"lot_number"`
	ExpiryDate      *time.Time `gorm:"type:date" json:"expiry_date,omitempty"` // nil = no expiry
	Quantity        int        `gorm:"not null;default:0" json:"quantity"`
	Position        int        `gorm:"not null;default:0" json:"position"`
}

type MovementDirection string

const (
	MovementOut MovementDirection = "OUT"
	MovementIn  MovementDirection = "IN"
)

// StockMovement is the append-only audit entry written by every
// deduction. Reason references the transaction that triggered it.
type StockMovement struct {
	BaseModel
	InventoryItemID uuid.UUID         `gorm:"type:uuid;index;not null" json:"inventory_item_id"`
	Direction       MovementDirection `gorm:"type:varchar(10);not null" json:"direction" validate:"required,oneof=IN OUT"`
	Quantity        int               `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Reason          string            `gorm:"type:varchar(255)" json:"reason"`
	TransactionID   *uuid.UUID        `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	ResponsibleBy   string            `gorm:"type:varchar(255)" json:"responsible_by"`
}
