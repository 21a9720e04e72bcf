package model

import (
	"time"

	"github.com/google/uuid"
)

// StandardTaxPercent is applied when a line's effective tax rate cannot
// be derived from its previous price (old unit price of zero).
const StandardTaxPercent = 16.0

type LineStatus string

const (
	LinePending LineStatus = "PENDING"
	LineCharged LineStatus = "CHARGED"
)

// LineItem is one mutable cart line. Quantity, price and tax can change
// until the sale commits; Total is kept in sync by Recalculate.
type LineItem struct {
	ID              uuid.UUID  `json:"id"`
	Concept         string     `json:"concept"`
	Category        string     `json:"category"`
	Quantity        int        `json:"quantity"`
	UnitPrice       float64    `json:"unit_price"`
	TaxPerUnit      float64    `json:"tax_per_unit"`
	Total           float64    `json:"total"`
	Status          LineStatus `json:"status"`
	InventoryItemID *uuid.UUID `json:"inventory_item_id,omitempty"`
	CatalogItemID   *uuid.UUID `json:"catalog_item_id,omitempty"`
}

// Recalculate refreshes Total from quantity, price and per-unit tax.
func (l *LineItem) Recalculate() {
	l.Total = float64(l.Quantity) * (l.UnitPrice + l.TaxPerUnit)
}

// EffectiveTaxPercent derives the tax rate currently carried by the
// line. Falls back to the standard rate when the price is zero.
func (l *LineItem) EffectiveTaxPercent() float64 {
	if l.UnitPrice == 0 {
		return StandardTaxPercent
	}
	return l.TaxPerUnit / l.UnitPrice * 100
}

// Order is one in-progress sale. It lives in memory only: created
// empty, mutated by the cashier, then consumed exactly once by a
// successful commit or discarded.
type Order struct {
	ID              uuid.UUID  `json:"id"`
	Lines           []LineItem `json:"lines"`
	DiscountPercent float64    `json:"discount_percent"`
	Notes           string     `json:"notes"`
	PatientID       *uuid.UUID `json:"patient_id,omitempty"` // nil = walk-in
	CreatedAt       time.Time  `json:"created_at"`
}

// OrderTotals breaks down the money of a cart. The discount applies to
// the subtotal only, never to the tax component.
type OrderTotals struct {
	Subtotal      float64 `json:"subtotal"`
	TaxTotal      float64 `json:"tax_total"`
	DiscountValue float64 `json:"discount_value"`
	GrandTotal    float64 `json:"grand_total"`
}

// Totals computes subtotal, tax, discount and grand total.
func (o *Order) Totals() OrderTotals {
	var t OrderTotals
	for _, line := range o.Lines {
		t.Subtotal += float64(line.Quantity) * line.UnitPrice
		t.TaxTotal += float64(line.Quantity) * line.TaxPerUnit
	}
	t.DiscountValue = t.Subtotal * o.DiscountPercent / 100
	t.GrandTotal = t.Subtotal - t.DiscountValue + t.TaxTotal
	return t
}

// QuantityCarted sums the quantity already in the order for an
// inventory item, counting direct line links only.
func (o *Order) QuantityCarted(inventoryItemID uuid.UUID) int {
	total := 0
	for _, line := range o.Lines {
		if line.InventoryItemID != nil && *line.InventoryItemID == inventoryItemID {
			total += line.Quantity
		}
	}
	return total
}
