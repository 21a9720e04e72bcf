package model

import "github.com/google/uuid"

type PaymentMethod string

const (
	PayCash       PaymentMethod = "CASH"
	PayCreditCard PaymentMethod = "CREDIT_CARD"
	PayDebitCard  PaymentMethod = "DEBIT_CARD"
	PayTransfer   PaymentMethod = "TRANSFER"
)

// IsCard groups both card variants for shift reconciliation.
func (m PaymentMethod) IsCard() bool {
	return m == PayCreditCard || m == PayDebitCard
}

type TransactionCategory string

const (
	TxSale TransactionCategory = "SALE"
)

// PaymentTender is one payment instrument and amount within a sale.
type PaymentTender struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	TransactionID uuid.UUID     `gorm:"type:uuid;index;not null" json:"transaction_id"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null" json:"method" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD TRANSFER"`
	Amount        float64       `gorm:"type:decimal(12,2);not null" json:"amount" validate:"required,gt=0"`
}

// TransactionLine is the immutable snapshot of a cart line taken at
// commit time.
type TransactionLine struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TransactionID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"transaction_id"`
	Concept         string     `gorm:"type:varchar(255);not null" json:"concept"`
	Category        string     `gorm:"type:varchar(50)" json:"category"`
	Quantity        int        `gorm:"not null" json:"quantity"`
	UnitPrice       float64    `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TaxPerUnit      float64    `gorm:"type:decimal(12,4);not null" json:"tax_per_unit"`
	Total           float64    `gorm:"type:decimal(12,2);not null" json:"total"`
	InventoryItemID *uuid.UUID `gorm:"type:uuid" json:"inventory_item_id,omitempty"`
}

// Transaction is the durable ledger record of a committed sale. It is
// created once and never mutated; shift reconciliation replays these
// rows by shift id.
type Transaction struct {
	BaseModel
	Category  TransactionCategory `gorm:"type:varchar(20);not null" json:"category"`
	ShiftID   uuid.UUID           `gorm:"type:uuid;index;not null" json:"shift_id"`
	PatientID *uuid.UUID          `gorm:"type:uuid;index" json:"patient_id,omitempty"` // nil = walk-in

	Lines   []TransactionLine `gorm:"foreignKey:TransactionID" json:"lines"`
	Tenders []PaymentTender   `gorm:"foreignKey:TransactionID" json:"tenders"`

	Subtotal      float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxTotal      float64 `gorm:"type:decimal(12,2);not null" json:"tax_total"`
	DiscountTotal float64 `gorm:"type:decimal(12,2);not null" json:"discount_total"`
	GrandTotal    float64 `gorm:"type:decimal(12,2);not null" json:"grand_total"`
	Change        float64 `gorm:"type:decimal(12,2);default:0" json:"change"`

	CashierID string `gorm:"type:varchar(255)" json:"cashier_id"`
	Notes     string `gorm:"type:text" json:"notes"`
}

// CashTendered sums the cash tenders of this transaction.
func (t *Transaction) CashTendered() float64 {
	total := 0.0
	for _, tender := range t.Tenders {
		if tender.Method == PayCash {
			total += tender.Amount
		}
	}
	return total
}
