package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRegisterClosed indicates a sale-related mutation was attempted
	// with no open shift.
	ErrRegisterClosed = errors.New("register is closed")
	// ErrShiftAlreadyOpen indicates an open attempt while a shift is open.
	ErrShiftAlreadyOpen = errors.New("a shift is already open")
	// ErrShiftIntegrity indicates more than one open shift was found in
	// storage. This is a programming or integration error; the operation
	// that detected it fails, the data is never silently corrected.
	ErrShiftIntegrity = errors.New("shift ledger integrity violation: multiple open shifts")
	// ErrInsufficientStock indicates a deduction or cart addition would
	// exceed the available lot quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInsufficientPayment indicates the tenders fall short of the
	// grand total by more than the configured epsilon.
	ErrInsufficientPayment = errors.New("insufficient payment")
	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidAmount indicates a non-positive monetary amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrNotFound indicates an unknown catalog, inventory, order or
	// shift id.
	ErrNotFound = errors.New("not found")
	// ErrLineOutOfRange indicates a line index outside the order.
	ErrLineOutOfRange = errors.New("line index out of range")
)

// PaymentShortfallError reports how much is still owed when tenders do
// not cover the grand total. It unwraps to ErrInsufficientPayment.
type PaymentShortfallError struct {
	Remaining float64
}

func (e *PaymentShortfallError) Error() string {
	return fmt.Sprintf("insufficient payment: %.2f remaining", e.Remaining)
}

func (e *PaymentShortfallError) Unwrap() error { return ErrInsufficientPayment }
