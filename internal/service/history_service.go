package service

import (
	"sort"
	"time"

	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"

	"github.com/google/uuid"
)

type HistoryEventType string

const (
	EventSale         HistoryEventType = "SALE"
	EventCashMovement HistoryEventType = "CASH_MOVEMENT"
	EventShiftOpen    HistoryEventType = "SHIFT_OPEN"
	EventShiftClose   HistoryEventType = "SHIFT_CLOSE"
)

// HistoryEvent is one row of the merged audit feed.
type HistoryEvent struct {
	Type      HistoryEventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	RefID     uuid.UUID        `json:"ref_id"`
	ShiftID   uuid.UUID        `json:"shift_id"`
	Label     string           `json:"label"`
	Amount    float64          `json:"amount"`
	Operator  string           `json:"operator"`
}

// DaySummary aggregates one day of register activity.
type DaySummary struct {
	Day           string  `json:"day"`
	SaleCount     int     `json:"sale_count"`
	GrandTotal    float64 `json:"grand_total"`
	CashTotal     float64 `json:"cash_total"`
	CardTotal     float64 `json:"card_total"`
	TransferTotal float64 `json:"transfer_total"`
}

// HistoryService merges transactions, shift lifecycle events and cash
// movements into one time-ordered audit feed. It is a pure projection:
// it never mutates any ledger.
type HistoryService interface {
	// Feed returns the merged events, newest first, ties broken by
	// insertion order. An empty filter includes every type.
	Feed(filter []HistoryEventType) ([]HistoryEvent, error)
	DaySummary(day time.Time) (*DaySummary, error)
}

type historyService struct {
	transactionRepo repository.TransactionRepository
	shiftRepo       repository.ShiftRepository
}

func NewHistoryService(transactionRepo repository.TransactionRepository, shiftRepo repository.ShiftRepository) HistoryService {
	return &historyService{
		transactionRepo: transactionRepo,
		shiftRepo:       shiftRepo,
	}
}

func (s *historyService) Feed(filter []HistoryEventType) ([]HistoryEvent, error) {
	include := make(map[HistoryEventType]bool, len(filter))
	for _, t := range filter {
		include[t] = true
	}
	wants := func(t HistoryEventType) bool {
		return len(include) == 0 || include[t]
	}

	var feed []HistoryEvent

	if wants(EventSale) {
		transactions, err := s.transactionRepo.FindAll()
		if err != nil {
			return nil, err
		}
		for _, tx := range transactions {
			feed = append(feed, HistoryEvent{
				Type:      EventSale,
				Timestamp: tx.CreatedAt,
				RefID:     tx.ID,
				ShiftID:   tx.ShiftID,
				Label:     "sale",
				Amount:    tx.GrandTotal,
				Operator:  tx.CashierID,
			})
		}
	}

	if wants(EventShiftOpen) || wants(EventShiftClose) || wants(EventCashMovement) {
		shifts, err := s.shiftRepo.FindAll()
		if err != nil {
			return nil, err
		}
		for _, shift := range shifts {
			if wants(EventShiftOpen) {
				feed = append(feed, HistoryEvent{
					Type:      EventShiftOpen,
					Timestamp: shift.OpenedAt,
					RefID:     shift.ID,
					ShiftID:   shift.ID,
					Label:     "shift opened",
					Amount:    shift.OpeningCash,
					Operator:  shift.OpenedBy,
				})
			}
			if wants(EventShiftClose) && shift.ClosedAt != nil {
				declared := 0.0
				if shift.DeclaredCash != nil {
					declared = *shift.DeclaredCash
				}
				feed = append(feed, HistoryEvent{
					Type:      EventShiftClose,
					Timestamp: *shift.ClosedAt,
					RefID:     shift.ID,
					ShiftID:   shift.ID,
					Label:     "shift closed",
					Amount:    declared,
					Operator:  shift.ClosedBy,
				})
			}
			if wants(EventCashMovement) {
				for _, mv := range shift.Movements {
					label := "cash in: " + mv.Reason
					if mv.Direction == model.CashOut {
						label = "cash out: " + mv.Reason
					}
					feed = append(feed, HistoryEvent{
						Type:      EventCashMovement,
						Timestamp: mv.CreatedAt,
						RefID:     mv.ID,
						ShiftID:   mv.ShiftID,
						Label:     label,
						Amount:    mv.Amount,
						Operator:  mv.ResponsibleBy,
					})
				}
			}
		}
	}

	// Newest first; the stable sort keeps insertion order for equal
	// timestamps.
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	return feed, nil
}

func (s *historyService) DaySummary(day time.Time) (*DaySummary, error) {
	transactions, err := s.transactionRepo.FindByDay(day)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{Day: day.Format("2006-01-02")}
	for _, tx := range transactions {
		summary.SaleCount++
		summary.GrandTotal += tx.GrandTotal
		for _, tender := range tx.Tenders {
			switch {
			case tender.Method == model.PayCash:
				summary.CashTotal += tender.Amount
			case tender.Method.IsCard():
				summary.CardTotal += tender.Amount
			case tender.Method == model.PayTransfer:
				summary.TransferTotal += tender.Amount
			}
		}
		summary.CashTotal -= tx.Change
	}
	return summary, nil
}
