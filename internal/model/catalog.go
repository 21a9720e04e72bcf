package model

import "github.com/google/uuid"

type CatalogKind string

const (
	KindService CatalogKind = "SERVICE"
	KindProduct CatalogKind = "PRODUCT"
)

// Categories a catalog item can belong to. Laboratory and imaging
// categories mark the item as a clinical study: committing a sale that
// contains one emits a StudiesOrderedForPatient event downstream.
const (
	CategoryConsultation = "CONSULTATION"
	CategoryLaboratory   = "LABORATORY"
	CategoryImaging      = "IMAGING"
	CategoryPharmacy     = "PHARMACY"
	CategorySupply       = "SUPPLY"
	CategoryOther        = "OTHER"
)

// IsStudyCategory reports whether a category refers to a laboratory or
// imaging study that must be forwarded to the patient-flow module.
func IsStudyCategory(category string) bool {
	return category == CategoryLaboratory || category == CategoryImaging
}

// CatalogItem is a priceable concept sold at the front desk. Items are
// edited by the catalog module; the register treats them as read-only
// within a sale.
type CatalogItem struct {
	BaseModel
	Code       string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name       string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Kind       CatalogKind `gorm:"type:varchar(20);not null" json:"kind" validate:"required,oneof=SERVICE PRODUCT"`
	Category   string      `gorm:"type:varchar(50)" json:"category"`
	UnitPrice  float64     `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	TaxPercent float64     `gorm:"type:decimal(5,2);default:0" json:"tax_percent"`

	// Products deduct their own stock on sale; services may instead
	// consume a set of supplies (syringes, reagents, ...).
	InventoryItemID *uuid.UUID      `gorm:"type:uuid" json:"inventory_item_id,omitempty"`
	Supplies        []CatalogSupply `gorm:"foreignKey:CatalogItemID" json:"supplies,omitempty"`
}

// CatalogSupply links a catalog item to an inventory item consumed per
// unit sold.
type CatalogSupply struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CatalogItemID   uuid.UUID `gorm:"type:uuid;index;not null" json:"catalog_item_id"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;not null" json:"inventory_item_id"`
	Quantity        int       `gorm:"not null" json:"quantity" validate:"gt=0"`
}
