package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go-clinic-pos/internal/events"
	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShiftService models the cash drawer as a single mutually-exclusive
// open/closed resource. The current open shift is held in one slot
// guarded by a mutex: open fills it, close empties it, everything else
// reads it. At most one shift is open at any time.
type ShiftService interface {
	// Restore loads the open shift from storage at startup, if any.
	Restore() error

	Open(initialCash float64, operator string) (*model.Shift, error)
	RecordMovement(direction model.CashDirection, amount float64, reason, operator string) (*model.CashMovement, error)
	Close(declaredCash, amountToRetain float64, operator string) (*model.Shift, error)

	// Current returns the open shift, or nil when the drawer is closed.
	Current() *model.Shift

	GetByID(id uuid.UUID) (*model.Shift, error)
	GetAll() ([]model.Shift, error)
}

type shiftService struct {
	mu              sync.Mutex
	current         *model.Shift
	shiftRepo       repository.ShiftRepository
	transactionRepo repository.TransactionRepository
	publisher       events.Publisher
}

func NewShiftService(shiftRepo repository.ShiftRepository, transactionRepo repository.TransactionRepository, publisher events.Publisher) ShiftService {
	return &shiftService{
		shiftRepo:       shiftRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

func (s *shiftService) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.shiftRepo.FindOpen()
	if err != nil {
		return err
	}
	if len(open) > 1 {
		return ErrShiftIntegrity
	}
	if len(open) == 1 {
		s.current = &open[0]
	}
	return nil
}

func (s *shiftService) Open(initialCash float64, operator string) (*model.Shift, error) {
	if initialCash < 0 {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Slot check, then storage check. An open row the slot does not
	// know about means another writer broke exclusivity: fail loudly.
	if s.current != nil {
		return nil, ErrShiftAlreadyOpen
	}
	open, err := s.shiftRepo.FindOpen()
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: found %d open in storage", ErrShiftIntegrity, len(open))
	}

	// 2. Create the shift with zero movements
	shift := &model.Shift{
		Status:      model.ShiftOpen,
		OpenedAt:    time.Now(),
		OpenedBy:    operator,
		OpeningCash: initialCash,
	}
	shift.CreatedBy = operator
	if err := s.shiftRepo.Create(shift); err != nil {
		return nil, err
	}

	s.current = shift
	s.publisher.Publish(events.ShiftOpened{
		ShiftID:     shift.ID,
		OpeningCash: initialCash,
		OpenedBy:    operator,
	})
	return shift, nil
}

func (s *shiftService) RecordMovement(direction model.CashDirection, amount float64, reason, operator string) (*model.CashMovement, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if direction != model.CashIn && direction != model.CashOut {
		return nil, fmt.Errorf("invalid cash direction %q", direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrRegisterClosed
	}

	movement := &model.CashMovement{
		ShiftID:       s.current.ID,
		Direction:     direction,
		Amount:        amount,
		Reason:        reason,
		ResponsibleBy: operator,
	}
	movement.CreatedBy = operator
	if err := s.shiftRepo.AddMovement(movement); err != nil {
		return nil, err
	}

	s.current.Movements = append(s.current.Movements, *movement)
	return movement, nil
}

func (s *shiftService) Close(declaredCash, amountToRetain float64, operator string) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrRegisterClosed
	}
	shift := s.current

	// 1. Replay this shift's transactions. They are immutable, so the
	// aggregate is deterministic and repeatable.
	transactions, err := s.transactionRepo.FindByShiftID(shift.ID)
	if err != nil {
		return nil, err
	}

	var cashSales, cardSales, transferSales float64
	for _, tx := range transactions {
		for _, tender := range tx.Tenders {
			switch {
			case tender.Method == model.PayCash:
				cashSales += tender.Amount
			case tender.Method.IsCard():
				cardSales += tender.Amount
			case tender.Method == model.PayTransfer:
				transferSales += tender.Amount
			}
		}
		cashSales -= tx.Change
	}

	var cashIn, cashOut float64
	for _, mv := range shift.Movements {
		if mv.Direction == model.CashIn {
			cashIn += mv.Amount
		} else {
			cashOut += mv.Amount
		}
	}

	// 2. Reconciliation. A discrepancy is reported, never a blocker:
	// the drawer closes with whatever was counted.
	expectedCash := shift.OpeningCash + cashSales + cashIn - cashOut
	discrepancy := declaredCash - expectedCash

	now := time.Now()
	shift.Status = model.ShiftClosed
	shift.ClosedAt = &now
	shift.ClosedBy = operator
	shift.DeclaredCash = &declaredCash
	shift.RetainedCash = &amountToRetain
	shift.Discrepancy = &discrepancy
	shift.CashSales = cashSales
	shift.CardSales = cardSales
	shift.TransferSales = transferSales
	shift.CashIn = cashIn
	shift.CashOut = cashOut
	shift.ExpectedCash = expectedCash
	shift.SaleCount = len(transactions)
	shift.UpdatedBy = operator

	if err := s.shiftRepo.Update(shift); err != nil {
		return nil, err
	}

	s.current = nil
	s.publisher.Publish(events.ShiftClosed{
		ShiftID:      shift.ID,
		ExpectedCash: expectedCash,
		DeclaredCash: declaredCash,
		Discrepancy:  discrepancy,
		ClosedBy:     operator,
	})
	return shift, nil
}

func (s *shiftService) Current() *model.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *shiftService) GetByID(id uuid.UUID) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("shift %s: %w", id, ErrNotFound)
	}
	return shift, err
}

func (s *shiftService) GetAll() ([]model.Shift, error) {
	return s.shiftRepo.FindAll()
}
