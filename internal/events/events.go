package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Event is anything the register core reports to the outside world.
// Events are the only way the core reaches other modules; it never
// calls into their state directly.
type Event interface {
	EventName() string
}

// Publisher is the outbound port the services publish through.
type Publisher interface {
	Publish(event Event)
}

// StudiesOrderedForPatient is emitted when a committed sale contains
// laboratory or imaging studies for an attached patient. The
// patient-flow module owns whatever state transition follows.
type StudiesOrderedForPatient struct {
	PatientID  uuid.UUID `json:"patient_id"`
	StudyNames []string  `json:"study_names"`
}

func (StudiesOrderedForPatient) EventName() string { return "studies_ordered_for_patient" }

// SaleCommitted notifies connected terminals that a sale went through.
type SaleCommitted struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	ShiftID       uuid.UUID `json:"shift_id"`
	GrandTotal    float64   `json:"grand_total"`
	Change        float64   `json:"change"`
	CashierName   string    `json:"cashier_name"`
}

func (SaleCommitted) EventName() string { return "sale_committed" }

// ShiftOpened / ShiftClosed mirror the drawer lifecycle.
type ShiftOpened struct {
	ShiftID     uuid.UUID `json:"shift_id"`
	OpeningCash float64   `json:"opening_cash"`
	OpenedBy    string    `json:"opened_by"`
}

func (ShiftOpened) EventName() string { return "shift_opened" }

type ShiftClosed struct {
	ShiftID      uuid.UUID `json:"shift_id"`
	ExpectedCash float64   `json:"expected_cash"`
	DeclaredCash float64   `json:"declared_cash"`
	Discrepancy  float64   `json:"discrepancy"`
	ClosedBy     string    `json:"closed_by"`
}

func (ShiftClosed) EventName() string { return "shift_closed" }

// LowStock warns that a deduction left an item at or below its minimum.
type LowStock struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	ItemName        string    `json:"item_name"`
	Available       int       `json:"available"`
	MinStock        int       `json:"min_stock"`
}

func (LowStock) EventName() string { return "low_stock" }

// Bus is a minimal in-process publisher. Subscribers run synchronously
// in subscription order; a subscriber must not publish back into the
// bus from its handler.
type Bus struct {
	mu          sync.RWMutex
	subscribers []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for every published event.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subscribers {
		fn(event)
	}
}

// Envelope is the wire shape broadcast to websocket terminals.
type Envelope struct {
	Type    string `json:"type"`
	Payload Event  `json:"payload"`
}

// Marshal wraps an event in its envelope for broadcast.
func Marshal(event Event) []byte {
	msg, err := json.Marshal(Envelope{Type: event.EventName(), Payload: event})
	if err != nil {
		log.Printf("events: failed to marshal %s: %v", event.EventName(), err)
		return nil
	}
	return msg
}
