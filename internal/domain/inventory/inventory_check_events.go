package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryCheck = "InventoryCheck"

// Event type constants
const (
	EventTypeInventoryCheckCreated   = "InventoryCheckCreated"
	EventTypeInventoryCheckCompleted = "InventoryCheckCompleted"
)

// InventoryCheckCreatedEvent is raised when a new check is opened
type InventoryCheckCreatedEvent struct {
	shared.BaseDomainEvent
	CheckID     uuid.UUID `json:"check_id"`
	CheckNumber string    `json:"check_number"`
	Name        string    `json:"name"`
}

// NewInventoryCheckCreatedEvent creates a new InventoryCheckCreatedEvent
func NewInventoryCheckCreatedEvent(check *InventoryCheck) *InventoryCheckCreatedEvent {
	return &InventoryCheckCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryCheckCreated, AggregateTypeInventoryCheck, check.ID),
		CheckID:         check.ID,
		CheckNumber:     check.CheckNumber,
		Name:            check.Name,
	}
}

// EventType returns the event type name
func (e *InventoryCheckCreatedEvent) EventType() string {
	return EventTypeInventoryCheckCreated
}

// InventoryCheckCompletedEvent is raised when a check is completed
type InventoryCheckCompletedEvent struct {
	shared.BaseDomainEvent
	CheckID         uuid.UUID       `json:"check_id"`
	CheckNumber     string          `json:"check_number"`
	TotalItems      int             `json:"total_items"`
	CountedItems    int             `json:"counted_items"`
	ShortageItems   int             `json:"shortage_items"`
	OverageItems    int             `json:"overage_items"`
	TotalDifference decimal.Decimal `json:"total_difference"`
}

// NewInventoryCheckCompletedEvent creates a new InventoryCheckCompletedEvent
func NewInventoryCheckCompletedEvent(check *InventoryCheck) *InventoryCheckCompletedEvent {
	summary := check.Summary()
	return &InventoryCheckCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryCheckCompleted, AggregateTypeInventoryCheck, check.ID),
		CheckID:         check.ID,
		CheckNumber:     check.CheckNumber,
		TotalItems:      summary.TotalItems,
		CountedItems:    summary.CountedItems,
		ShortageItems:   summary.ShortageItems,
		OverageItems:    summary.OverageItems,
		TotalDifference: summary.TotalDifference,
	}
}

// EventType returns the event type name
func (e *InventoryCheckCompletedEvent) EventType() string {
	return EventTypeInventoryCheckCompleted
}
