package service

import (
	"errors"
	"fmt"

	"go-clinic-pos/internal/events"
	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"
	"go-clinic-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPaymentEpsilon is the tolerance applied when comparing tenders
// against the grand total, in currency units.
const DefaultPaymentEpsilon = 0.01

// SaleService commits a finished cart against the open shift: settles
// payment, deducts stock, appends the immutable transaction and reports
// study orders as an event. A failed commit leaves every ledger exactly
// as it was.
type SaleService interface {
	Commit(orderID uuid.UUID, tenders []model.PaymentTender, cashierID, cashierName string) (*model.Transaction, error)
	GetTransaction(id uuid.UUID) (*model.Transaction, error)
	GetTransactionsByShift(shiftID uuid.UUID) ([]model.Transaction, error)
}

type saleService struct {
	orders          OrderService
	shifts          ShiftService
	inventory       InventoryService
	catalogRepo     repository.CatalogRepository
	transactionRepo repository.TransactionRepository
	publisher       events.Publisher
	epsilon         float64
}

func NewSaleService(
	orders OrderService,
	shifts ShiftService,
	inventory InventoryService,
	catalogRepo repository.CatalogRepository,
	transactionRepo repository.TransactionRepository,
	publisher events.Publisher,
	epsilon float64,
) SaleService {
	if epsilon <= 0 {
		epsilon = DefaultPaymentEpsilon
	}
	return &saleService{
		orders:          orders,
		shifts:          shifts,
		inventory:       inventory,
		catalogRepo:     catalogRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		epsilon:         epsilon,
	}
}

// lineNeed is one pending deduction resolved from a cart line or from a
// catalog supply link.
type lineNeed struct {
	inventoryItemID uuid.UUID
	quantity        int
	reason          string
}

func (s *saleService) Commit(orderID uuid.UUID, tenders []model.PaymentTender, cashierID, cashierName string) (*model.Transaction, error) {
	// 1. Require an open shift
	shift := s.shifts.Current()
	if shift == nil {
		return nil, ErrRegisterClosed
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Lines) == 0 {
		return nil, fmt.Errorf("order %s has no lines: %w", orderID, ErrNotFound)
	}

	for i := range tenders {
		if errs := validator.ValidateStruct(&tenders[i]); len(errs) > 0 {
			return nil, fmt.Errorf("tender %d: field %s failed on %s", i, errs[0].FailedField, errs[0].Tag)
		}
	}

	// 2. Settle payment before any side effect
	totals := order.Totals()
	totalPaid := 0.0
	for _, tender := range tenders {
		totalPaid += tender.Amount
	}
	if remaining := totals.GrandTotal - totalPaid; remaining > s.epsilon {
		return nil, &PaymentShortfallError{Remaining: remaining}
	}

	// 3. Resolve every deduction this sale implies, validate all of
	// them, then apply. Pre-validation approximates atomicity in this
	// single-writer setting: nothing is deducted unless everything fits.
	needs, err := s.resolveNeeds(order)
	if err != nil {
		return nil, err
	}

	required := make(map[uuid.UUID]int)
	for _, need := range needs {
		required[need.inventoryItemID] += need.quantity
	}
	for itemID, quantity := range required {
		available, err := s.inventory.AvailableQuantity(itemID)
		if err != nil {
			return nil, err
		}
		if available < quantity {
			return nil, fmt.Errorf("%w: item %s has %d available, sale needs %d",
				ErrInsufficientStock, itemID, available, quantity)
		}
	}

	transactionID := uuid.New()
	for _, need := range needs {
		if _, err := s.inventory.Deduct(need.inventoryItemID, need.quantity, need.reason, &transactionID, cashierName); err != nil {
			return nil, err
		}
	}

	// 4. Append the immutable transaction
	change := totalPaid - totals.GrandTotal
	if change < 0 {
		change = 0
	}

	transaction := &model.Transaction{
		Category:      model.TxSale,
		ShiftID:       shift.ID,
		PatientID:     order.PatientID,
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		DiscountTotal: totals.DiscountValue,
		GrandTotal:    totals.GrandTotal,
		Change:        change,
		CashierID:     cashierID,
		Notes:         order.Notes,
		Tenders:       tenders,
	}
	transaction.ID = transactionID
	transaction.CreatedBy = cashierID
	for _, line := range order.Lines {
		transaction.Lines = append(transaction.Lines, model.TransactionLine{
			Concept:         line.Concept,
			Category:        line.Category,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			TaxPerUnit:      line.TaxPerUnit,
			Total:           line.Total,
			InventoryItemID: line.InventoryItemID,
		})
	}
	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, err
	}

	// 5. Studies go to the patient-flow module as an event, never as a
	// direct call into its state.
	if order.PatientID != nil {
		var studies []string
		for _, line := range order.Lines {
			if model.IsStudyCategory(line.Category) {
				studies = append(studies, line.Concept)
			}
		}
		if len(studies) > 0 {
			s.publisher.Publish(events.StudiesOrderedForPatient{
				PatientID:  *order.PatientID,
				StudyNames: studies,
			})
		}
	}

	s.publisher.Publish(events.SaleCommitted{
		TransactionID: transaction.ID,
		ShiftID:       shift.ID,
		GrandTotal:    totals.GrandTotal,
		Change:        change,
		CashierName:   cashierName,
	})

	// 6. The caller clears the order builder
	return transaction, nil
}

// resolveNeeds expands cart lines into deductions: the direct inventory
// link of each line plus the supplies its catalog item consumes. A
// missing catalog entry only drops the supply expansion; a manual line
// never deducts.
func (s *saleService) resolveNeeds(order *model.Order) ([]lineNeed, error) {
	var needs []lineNeed
	for _, line := range order.Lines {
		if line.InventoryItemID != nil {
			needs = append(needs, lineNeed{
				inventoryItemID: *line.InventoryItemID,
				quantity:        line.Quantity,
				reason:          fmt.Sprintf("sale: %s", line.Concept),
			})
		}
		if line.CatalogItemID == nil {
			continue
		}
		item, err := s.catalogRepo.FindByID(*line.CatalogItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		for _, supply := range item.Supplies {
			needs = append(needs, lineNeed{
				inventoryItemID: supply.InventoryItemID,
				quantity:        supply.Quantity * line.Quantity,
				reason:          fmt.Sprintf("supplies: %s", line.Concept),
			})
		}
	}
	return needs, nil
}

func (s *saleService) GetTransaction(id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return tx, err
}

func (s *saleService) GetTransactionsByShift(shiftID uuid.UUID) ([]model.Transaction, error) {
	return s.transactionRepo.FindByShiftID(shiftID)
}
