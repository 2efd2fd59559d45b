package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusOrdered || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusOrdered:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrderDetail represents a line in a purchase order.
// Details are unique per product within an order.
type PurchaseOrderDetail struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_po_detail_product,priority:1"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_po_detail_product,priority:2"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderDetail) TableName() string {
	return "purchase_order_details"
}

// NewPurchaseOrderDetail creates a new purchase order detail line
func NewPurchaseOrderDetail(orderID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*PurchaseOrderDetail, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderDetail{
		ID:              uuid.New(),
		PurchaseOrderID: orderID,
		ProductID:       productID,
		ProductName:     productName,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Subtotal:        ledger.Subtotal(quantity, unitPrice),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Update changes quantity and unit price and recalculates the subtotal
func (d *PurchaseOrderDetail) Update(quantity, unitPrice decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}

	d.Quantity = quantity
	d.UnitPrice = unitPrice
	d.Subtotal = ledger.Subtotal(quantity, unitPrice)
	d.UpdatedAt = time.Now()

	return nil
}

// PurchaseOrder represents a purchase order aggregate root.
// It tracks a supplier order from draft through ordering to receipt.
type PurchaseOrder struct {
	shared.ActorAggregateRoot
	OrderNumber  string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierName string                `gorm:"type:varchar(200);not null"`
	Details      []PurchaseOrderDetail `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TotalAmount  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status       PurchaseOrderStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	Note         string                `gorm:"type:text"`
	OrderedAt    *time.Time            `gorm:"index"`
	ReceivedAt   *time.Time
	// ReceiptID links the inventory receipt created when the order was
	// received. Informational only; receiving never mutates stock here.
	ReceiptID    *uuid.UUID `gorm:"type:uuid"`
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewValidationError("Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}

	order := &PurchaseOrder{
		ActorAggregateRoot: shared.NewActorAggregateRoot(createdBy),
		OrderNumber:        orderNumber,
		SupplierID:         supplierID,
		SupplierName:       supplierName,
		Details:            make([]PurchaseOrderDetail, 0),
		TotalAmount:        decimal.Zero,
		Status:             PurchaseOrderStatusDraft,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddDetail adds a new line to the order. Only allowed in draft status;
// a product may appear at most once per order.
func (o *PurchaseOrder) AddDetail(productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*PurchaseOrderDetail, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewInvalidTransitionError(o.Status.String(), "detail mutation")
	}

	for _, d := range o.Details {
		if d.ProductID == productID {
			return nil, shared.NewValidationError("Product already exists in order, update it instead")
		}
	}

	detail, err := NewPurchaseOrderDetail(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Details = append(o.Details, *detail)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return detail, nil
}

// UpdateDetail changes an existing line identified by product.
// Only allowed in draft status.
func (o *PurchaseOrder) UpdateDetail(productID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewInvalidTransitionError(o.Status.String(), "detail mutation")
	}

	for idx := range o.Details {
		if o.Details[idx].ProductID == productID {
			if err := o.Details[idx].Update(quantity, unitPrice); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Order detail not found")
}

// RemoveDetail removes a line identified by product. Only allowed in draft status.
func (o *PurchaseOrder) RemoveDetail(productID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewInvalidTransitionError(o.Status.String(), "detail mutation")
	}

	for idx, d := range o.Details {
		if d.ProductID == productID {
			o.Details = append(o.Details[:idx], o.Details[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Order detail not found")
}

// SetNote sets the order note
func (o *PurchaseOrder) SetNote(note string) {
	o.Note = note
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Place transitions the order from draft to ordered.
// Requires at least one detail line.
func (o *PurchaseOrder) Place() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusOrdered) {
		return shared.NewInvalidTransitionError(o.Status.String(), PurchaseOrderStatusOrdered.String())
	}
	if len(o.Details) == 0 {
		return shared.NewValidationError("Cannot place an order without details")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusOrdered
	o.OrderedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderPlacedEvent(o))

	return nil
}

// Receive transitions the order from ordered to received and optionally
// links the inventory receipt created for it.
func (o *PurchaseOrder) Receive(receiptID *uuid.UUID) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return shared.NewInvalidTransitionError(o.Status.String(), PurchaseOrderStatusReceived.String())
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusReceived
	o.ReceivedAt = &now
	o.ReceiptID = receiptID
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))

	return nil
}

// Cancel cancels the order. Allowed in draft or ordered status.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewInvalidTransitionError(o.Status.String(), PurchaseOrderStatusCancelled.String())
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// FindDetail returns the detail line for a product, or nil
func (o *PurchaseOrder) FindDetail(productID uuid.UUID) *PurchaseOrderDetail {
	for idx := range o.Details {
		if o.Details[idx].ProductID == productID {
			return &o.Details[idx]
		}
	}
	return nil
}

// recalculateTotals recomputes the order total from its detail subtotals.
// Must be called after every detail mutation.
func (o *PurchaseOrder) recalculateTotals() {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Subtotal)
	}
	o.TotalAmount = total
}
