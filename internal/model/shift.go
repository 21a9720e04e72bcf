package model

import (
	"time"

	"github.com/google/uuid"
)

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "OPEN"
	ShiftClosed ShiftStatus = "CLOSED"
)

// Shift is one continuous cash-drawer session, from open to close.
// Invariant: at most one shift has status OPEN at any time. Once closed
// the aggregate columns are frozen and the row is never touched again.
type Shift struct {
	BaseModel
	Status      ShiftStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	OpenedAt    time.Time   `gorm:"not null" json:"opened_at"`
	OpenedBy    string      `gorm:"type:varchar(255)" json:"opened_by"`
	OpeningCash float64     `gorm:"type:decimal(12,2);not null" json:"opening_cash"`

	Movements []CashMovement `gorm:"foreignKey:ShiftID" json:"movements,omitempty"`

	// Set on close, nil/zero while open.
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	ClosedBy     string     `gorm:"type:varchar(255)" json:"closed_by,omitempty"`
	DeclaredCash *float64   `gorm:"type:decimal(12,2)" json:"declared_cash,omitempty"`
	RetainedCash *float64   `gorm:"type:decimal(12,2)" json:"retained_cash,omitempty"`
	Discrepancy  *float64   `gorm:"type:decimal(12,2)" json:"discrepancy,omitempty"`

	// Aggregates frozen at close. Positive discrepancy = overage,
	// negative = shortage.
	CashSales     float64 `gorm:"type:decimal(12,2);default:0" json:"cash_sales"`
	CardSales     float64 `gorm:"type:decimal(12,2);default:0" json:"card_sales"`
	TransferSales float64 `gorm:"type:decimal(12,2);default:0" json:"transfer_sales"`
	CashIn        float64 `gorm:"type:decimal(12,2);default:0" json:"cash_in"`
	CashOut       float64 `gorm:"type:decimal(12,2);default:0" json:"cash_out"`
	ExpectedCash  float64 `gorm:"type:decimal(12,2);default:0" json:"expected_cash"`
	SaleCount     int     `gorm:"default:0" json:"sale_count"`
}

// IsOpen reports whether the drawer can still take sales and movements.
func (s *Shift) IsOpen() bool {
	return s.Status == ShiftOpen
}

type CashDirection string

const (
	CashIn  CashDirection = "IN"
	CashOut CashDirection = "OUT"
)

// CashMovement is a manual cash-in or cash-out recorded against an open
// shift (supply purchases, change replenishment, withdrawals).
type CashMovement struct {
	BaseModel
	ShiftID       uuid.UUID     `gorm:"type:uuid;index;not null" json:"shift_id"`
	Direction     CashDirection `gorm:"type:varchar(10);not null" json:"direction" validate:"required,oneof=IN OUT"`
	Amount        float64       `gorm:"type:decimal(12,2);not null" json:"amount" validate:"required,gt=0"`
	Reason        string        `gorm:"type:varchar(255);not null" json:"reason" validate:"required"`
	ResponsibleBy string        `gorm:"type:varchar(255)" json:"responsible_by"`
}
