package procurement

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
)

// InventoryReceiptStatus represents the status of an inventory receipt
type InventoryReceiptStatus string

const (
	InventoryReceiptStatusDraft     InventoryReceiptStatus = "draft"
	InventoryReceiptStatusPosted    InventoryReceiptStatus = "posted"
	InventoryReceiptStatusCancelled InventoryReceiptStatus = "cancelled"
)

// IsValid checks if the status is a valid InventoryReceiptStatus
func (s InventoryReceiptStatus) IsValid() bool {
	switch s {
	case InventoryReceiptStatusDraft, InventoryReceiptStatusPosted, InventoryReceiptStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InventoryReceiptStatus
func (s InventoryReceiptStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InventoryReceiptStatus) CanTransitionTo(target InventoryReceiptStatus) bool {
	switch s {
	case InventoryReceiptStatusDraft:
		return target == InventoryReceiptStatusPosted || target == InventoryReceiptStatusCancelled
	case InventoryReceiptStatusPosted, InventoryReceiptStatusCancelled:
		return false // Terminal states
	}
	return false
}

// InventoryReceiptLine represents a received batch of a product variant.
// Lines are unique per variant within a receipt.
type InventoryReceiptLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_receipt_line_variant,priority:1"`
	VariantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_line_variant,priority:2"`
	VariantName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber string          `gorm:"type:varchar(100)"`
	ExpiryDate  *time.Time      `gorm:"index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryReceiptLine) TableName() string {
	return "inventory_receipt_lines"
}

// NewInventoryReceiptLine creates a new receipt line
func NewInventoryReceiptLine(receiptID, variantID uuid.UUID, variantName string, quantity, unitCost decimal.Decimal, batchNumber string, expiryDate *time.Time) (*InventoryReceiptLine, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewValidationError("Variant ID cannot be empty")
	}
	if variantName == "" {
		return nil, shared.NewValidationError("Variant name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}

	now := time.Now()
	return &InventoryReceiptLine{
		ID:          uuid.New(),
		ReceiptID:   receiptID,
		VariantID:   variantID,
		VariantName: variantName,
		Quantity:    quantity,
		UnitCost:    unitCost,
		BatchNumber: batchNumber,
		ExpiryDate:  expiryDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update changes the line quantity, cost and batch info
func (l *InventoryReceiptLine) Update(quantity, unitCost decimal.Decimal, batchNumber string, expiryDate *time.Time) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewValidationError("Unit cost cannot be negative")
	}

	l.Quantity = quantity
	l.UnitCost = unitCost
	l.BatchNumber = batchNumber
	l.ExpiryDate = expiryDate
	l.UpdatedAt = time.Now()

	return nil
}

// Subtotal returns quantity times unit cost
func (l *InventoryReceiptLine) Subtotal() decimal.Decimal {
	return ledger.Subtotal(l.Quantity, l.UnitCost)
}

// IsExpired reports whether the line's batch has passed its expiry date.
// Lines without an expiry date never expire.
func (l *InventoryReceiptLine) IsExpired(now time.Time) bool {
	return l.ExpiryDate != nil && l.ExpiryDate.Before(now)
}

// DaysUntilExpiry returns the whole days until the batch expires, negative
// when the date has passed, nil when the line has no expiry date.
func (l *InventoryReceiptLine) DaysUntilExpiry(now time.Time) *int {
	if l.ExpiryDate == nil {
		return nil
	}
	days := int(math.Floor(l.ExpiryDate.Sub(now).Hours() / 24))
	return &days
}

// InventoryReceipt represents a goods receipt aggregate root.
// Totals are derived from the lines at read time and never stored.
type InventoryReceipt struct {
	shared.ActorAggregateRoot
	ReceiptNumber   string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	PurchaseOrderID uuid.UUID              `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	SupplierName    string                 `gorm:"type:varchar(200);not null"`
	Lines           []InventoryReceiptLine `gorm:"foreignKey:ReceiptID;references:ID"`
	Status          InventoryReceiptStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Note            string                 `gorm:"type:text"`
	PostedAt        *time.Time             `gorm:"index"`
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InventoryReceipt) TableName() string {
	return "inventory_receipts"
}

// NewInventoryReceipt creates a new inventory receipt in draft status,
// referencing the purchase order it receives goods for. Posting the receipt
// never touches the purchase order status; marking the order received stays
// a separate decision.
func NewInventoryReceipt(receiptNumber string, purchaseOrderID, supplierID uuid.UUID, supplierName string, createdBy uuid.UUID) (*InventoryReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewValidationError("Receipt number cannot be empty")
	}
	if purchaseOrderID == uuid.Nil {
		return nil, shared.NewValidationError("Purchase order ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}

	receipt := &InventoryReceipt{
		ActorAggregateRoot: shared.NewActorAggregateRoot(createdBy),
		ReceiptNumber:      receiptNumber,
		PurchaseOrderID:    purchaseOrderID,
		SupplierID:         supplierID,
		SupplierName:       supplierName,
		Lines:              make([]InventoryReceiptLine, 0),
		Status:             InventoryReceiptStatusDraft,
	}
	receipt.AddDomainEvent(NewInventoryReceiptCreatedEvent(receipt))
	return receipt, nil
}

// AddLine adds a received batch to the receipt. Only allowed in draft
// status; a variant may appear at most once per receipt.
func (r *InventoryReceipt) AddLine(variantID uuid.UUID, variantName string, quantity, unitCost decimal.Decimal, batchNumber string, expiryDate *time.Time) (*InventoryReceiptLine, error) {
	if r.Status != InventoryReceiptStatusDraft {
		return nil, shared.NewInvalidTransitionError(r.Status.String(), "line mutation")
	}

	for _, l := range r.Lines {
		if l.VariantID == variantID {
			return nil, shared.NewValidationError("Variant already exists in receipt, update it instead")
		}
	}

	line, err := NewInventoryReceiptLine(r.ID, variantID, variantName, quantity, unitCost, batchNumber, expiryDate)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return line, nil
}

// UpdateLine changes an existing line identified by variant.
// Only allowed in draft status.
func (r *InventoryReceipt) UpdateLine(variantID uuid.UUID, quantity, unitCost decimal.Decimal, batchNumber string, expiryDate *time.Time) error {
	if r.Status != InventoryReceiptStatusDraft {
		return shared.NewInvalidTransitionError(r.Status.String(), "line mutation")
	}

	for idx := range r.Lines {
		if r.Lines[idx].VariantID == variantID {
			if err := r.Lines[idx].Update(quantity, unitCost, batchNumber, expiryDate); err != nil {
				return err
			}
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Receipt line not found")
}

// RemoveLine removes a line identified by variant. Only allowed in draft status.
func (r *InventoryReceipt) RemoveLine(variantID uuid.UUID) error {
	if r.Status != InventoryReceiptStatusDraft {
		return shared.NewInvalidTransitionError(r.Status.String(), "line mutation")
	}

	for idx, l := range r.Lines {
		if l.VariantID == variantID {
			r.Lines = append(r.Lines[:idx], r.Lines[idx+1:]...)
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Receipt line not found")
}

// Post transitions the receipt from draft to posted.
// Requires at least one line.
func (r *InventoryReceipt) Post() error {
	if !r.Status.CanTransitionTo(InventoryReceiptStatusPosted) {
		return shared.NewInvalidTransitionError(r.Status.String(), InventoryReceiptStatusPosted.String())
	}
	if len(r.Lines) == 0 {
		return shared.NewValidationError("Cannot post a receipt without lines")
	}

	now := time.Now()
	r.Status = InventoryReceiptStatusPosted
	r.PostedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewInventoryReceiptPostedEvent(r))

	return nil
}

// Cancel cancels a draft receipt
func (r *InventoryReceipt) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(InventoryReceiptStatusCancelled) {
		return shared.NewInvalidTransitionError(r.Status.String(), InventoryReceiptStatusCancelled.String())
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	r.Status = InventoryReceiptStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewInventoryReceiptCancelledEvent(r))

	return nil
}

// TotalAmount returns the sum of the line subtotals
func (r *InventoryReceipt) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for idx := range r.Lines {
		total = total.Add(r.Lines[idx].Subtotal())
	}
	return total
}

// TotalQuantity returns the sum of the line quantities
func (r *InventoryReceipt) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for idx := range r.Lines {
		total = total.Add(r.Lines[idx].Quantity)
	}
	return total
}

// ExpiringLines returns the lines whose expiry date falls within the given
// number of days from now, already-expired lines included.
func (r *InventoryReceipt) ExpiringLines(now time.Time, days int) []InventoryReceiptLine {
	cutoff := now.AddDate(0, 0, days)
	expiring := make([]InventoryReceiptLine, 0)
	for _, l := range r.Lines {
		if l.ExpiryDate != nil && !l.ExpiryDate.After(cutoff) {
			expiring = append(expiring, l)
		}
	}
	return expiring
}

// FindLine returns the line for a variant, or nil
func (r *InventoryReceipt) FindLine(variantID uuid.UUID) *InventoryReceiptLine {
	for idx := range r.Lines {
		if r.Lines[idx].VariantID == variantID {
			return &r.Lines[idx]
		}
	}
	return nil
}
