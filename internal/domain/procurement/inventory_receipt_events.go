package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryReceipt = "InventoryReceipt"

// Event type constants
const (
	EventTypeInventoryReceiptCreated   = "InventoryReceiptCreated"
	EventTypeInventoryReceiptPosted    = "InventoryReceiptPosted"
	EventTypeInventoryReceiptCancelled = "InventoryReceiptCancelled"
)

// InventoryReceiptCreatedEvent is raised when a new receipt is opened
type InventoryReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID `json:"receipt_id"`
	ReceiptNumber   string    `json:"receipt_number"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	SupplierID      uuid.UUID `json:"supplier_id"`
	SupplierName    string    `json:"supplier_name"`
}

// NewInventoryReceiptCreatedEvent creates a new InventoryReceiptCreatedEvent
func NewInventoryReceiptCreatedEvent(receipt *InventoryReceipt) *InventoryReceiptCreatedEvent {
	return &InventoryReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryReceiptCreated, AggregateTypeInventoryReceipt, receipt.ID),
		ReceiptID:       receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		PurchaseOrderID: receipt.PurchaseOrderID,
		SupplierID:      receipt.SupplierID,
		SupplierName:    receipt.SupplierName,
	}
}

// EventType returns the event type name
func (e *InventoryReceiptCreatedEvent) EventType() string {
	return EventTypeInventoryReceiptCreated
}

// InventoryReceiptLineInfo represents line information for events
type InventoryReceiptLineInfo struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	VariantName string          `json:"variant_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

func lineInfos(receipt *InventoryReceipt) []InventoryReceiptLineInfo {
	infos := make([]InventoryReceiptLineInfo, len(receipt.Lines))
	for i, l := range receipt.Lines {
		infos[i] = InventoryReceiptLineInfo{
			VariantID:   l.VariantID,
			VariantName: l.VariantName,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			BatchNumber: l.BatchNumber,
			ExpiryDate:  l.ExpiryDate,
		}
	}
	return infos
}

// InventoryReceiptPostedEvent is raised when a receipt is posted
type InventoryReceiptPostedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID                  `json:"receipt_id"`
	ReceiptNumber   string                     `json:"receipt_number"`
	PurchaseOrderID uuid.UUID                  `json:"purchase_order_id"`
	Lines           []InventoryReceiptLineInfo `json:"lines"`
	TotalAmount     decimal.Decimal            `json:"total_amount"`
	TotalQuantity   decimal.Decimal            `json:"total_quantity"`
}

// NewInventoryReceiptPostedEvent creates a new InventoryReceiptPostedEvent
func NewInventoryReceiptPostedEvent(receipt *InventoryReceipt) *InventoryReceiptPostedEvent {
	return &InventoryReceiptPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryReceiptPosted, AggregateTypeInventoryReceipt, receipt.ID),
		ReceiptID:       receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		PurchaseOrderID: receipt.PurchaseOrderID,
		Lines:           lineInfos(receipt),
		TotalAmount:     receipt.TotalAmount(),
		TotalQuantity:   receipt.TotalQuantity(),
	}
}

// EventType returns the event type name
func (e *InventoryReceiptPostedEvent) EventType() string {
	return EventTypeInventoryReceiptPosted
}

// InventoryReceiptCancelledEvent is raised when a draft receipt is cancelled
type InventoryReceiptCancelledEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	Reason        string    `json:"reason"`
}

// NewInventoryReceiptCancelledEvent creates a new InventoryReceiptCancelledEvent
func NewInventoryReceiptCancelledEvent(receipt *InventoryReceipt) *InventoryReceiptCancelledEvent {
	return &InventoryReceiptCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryReceiptCancelled, AggregateTypeInventoryReceipt, receipt.ID),
		ReceiptID:       receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		Reason:          receipt.CancelReason,
	}
}

// EventType returns the event type name
func (e *InventoryReceiptCancelledEvent) EventType() string {
	return EventTypeInventoryReceiptCancelled
}
