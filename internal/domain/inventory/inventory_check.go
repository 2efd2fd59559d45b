package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
)

// InventoryCheckStatus represents the status of an inventory check
type InventoryCheckStatus string

const (
	InventoryCheckStatusDraft     InventoryCheckStatus = "draft"
	InventoryCheckStatusCompleted InventoryCheckStatus = "completed"
)

// IsValid checks if the status is a valid InventoryCheckStatus
func (s InventoryCheckStatus) IsValid() bool {
	switch s {
	case InventoryCheckStatusDraft, InventoryCheckStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of InventoryCheckStatus
func (s InventoryCheckStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InventoryCheckStatus) CanTransitionTo(target InventoryCheckStatus) bool {
	return s == InventoryCheckStatusDraft && target == InventoryCheckStatusCompleted
}

// InventoryCheckItem represents one counted product within a check.
// Items are unique per product within a check. ActualQuantity stays nil
// until the product is counted.
type InventoryCheckItem struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key"`
	CheckID            uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_check_item_product,priority:1"`
	ProductID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_check_item_product,priority:2"`
	ProductName        string           `gorm:"type:varchar(200);not null"`
	SystemQuantity     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ActualQuantity     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Difference         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DiscrepancyPercent decimal.Decimal  `gorm:"type:decimal(9,2);not null;default:0"`
	CreatedAt          time.Time        `gorm:"not null"`
	UpdatedAt          time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryCheckItem) TableName() string {
	return "inventory_check_items"
}

// NewInventoryCheckItem creates a new check item with a system quantity snapshot
func NewInventoryCheckItem(checkID, productID uuid.UUID, productName string, systemQuantity decimal.Decimal) (*InventoryCheckItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if systemQuantity.IsNegative() {
		return nil, shared.NewValidationError("System quantity cannot be negative")
	}

	now := time.Now()
	return &InventoryCheckItem{
		ID:                 uuid.New(),
		CheckID:            checkID,
		ProductID:          productID,
		ProductName:        productName,
		SystemQuantity:     systemQuantity,
		Difference:         decimal.Zero,
		DiscrepancyPercent: decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// RecordCount sets the counted quantity and recomputes difference and
// discrepancy percentage in the same mutation.
func (i *InventoryCheckItem) RecordCount(actual decimal.Decimal) error {
	if actual.IsNegative() {
		return shared.NewValidationError("Actual quantity cannot be negative")
	}

	i.ActualQuantity = &actual
	i.Difference = ledger.Difference(actual, i.SystemQuantity)
	i.DiscrepancyPercent = ledger.DiscrepancyPercent(i.Difference, i.SystemQuantity)
	i.UpdatedAt = time.Now()

	return nil
}

// IsCounted reports whether the product has been counted
func (i *InventoryCheckItem) IsCounted() bool {
	return i.ActualQuantity != nil
}

// CheckSummary aggregates the outcome of an inventory check
type CheckSummary struct {
	TotalItems      int             `json:"total_items"`
	CountedItems    int             `json:"counted_items"`
	UncountedItems  int             `json:"uncounted_items"`
	MatchedItems    int             `json:"matched_items"`
	ShortageItems   int             `json:"shortage_items"`
	OverageItems    int             `json:"overage_items"`
	TotalDifference decimal.Decimal `json:"total_difference"`
	AbsDifference   decimal.Decimal `json:"abs_difference"`
}

// InventoryCheck represents a stock count aggregate root
type InventoryCheck struct {
	shared.ActorAggregateRoot
	CheckNumber string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string               `gorm:"type:varchar(200);not null"`
	Items       []InventoryCheckItem `gorm:"foreignKey:CheckID;references:ID"`
	Status      InventoryCheckStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Note        string               `gorm:"type:text"`
	CompletedAt *time.Time           `gorm:"index"`
	CompletedBy *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryCheck) TableName() string {
	return "inventory_checks"
}

// NewInventoryCheck creates a new inventory check in draft status
func NewInventoryCheck(checkNumber, name string, createdBy uuid.UUID) (*InventoryCheck, error) {
	if checkNumber == "" {
		return nil, shared.NewValidationError("Check number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Check name cannot be empty")
	}

	check := &InventoryCheck{
		ActorAggregateRoot: shared.NewActorAggregateRoot(createdBy),
		CheckNumber:        checkNumber,
		Name:               name,
		Items:              make([]InventoryCheckItem, 0),
		Status:             InventoryCheckStatusDraft,
	}

	check.AddDomainEvent(NewInventoryCheckCreatedEvent(check))

	return check, nil
}

// AddItem adds a product with its system quantity snapshot.
// Only allowed in draft status; a product may appear at most once.
func (c *InventoryCheck) AddItem(productID uuid.UUID, productName string, systemQuantity decimal.Decimal) (*InventoryCheckItem, error) {
	if c.Status != InventoryCheckStatusDraft {
		return nil, shared.NewInvalidTransitionError(c.Status.String(), "item mutation")
	}

	for _, item := range c.Items {
		if item.ProductID == productID {
			return nil, shared.NewValidationError("Product already included in this check")
		}
	}

	item, err := NewInventoryCheckItem(c.ID, productID, productName, systemQuantity)
	if err != nil {
		return nil, err
	}

	c.Items = append(c.Items, *item)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return item, nil
}

// RemoveItem removes a product from the check. Only allowed in draft status.
func (c *InventoryCheck) RemoveItem(productID uuid.UUID) error {
	if c.Status != InventoryCheckStatusDraft {
		return shared.NewInvalidTransitionError(c.Status.String(), "item mutation")
	}

	for idx, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Check item not found")
}

// SetActualQuantity records the counted quantity for a product. The item's
// difference and discrepancy percentage are recomputed in the same call.
// Only allowed in draft status.
func (c *InventoryCheck) SetActualQuantity(productID uuid.UUID, actual decimal.Decimal) error {
	if c.Status != InventoryCheckStatusDraft {
		return shared.NewInvalidTransitionError(c.Status.String(), "count mutation")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			if err := c.Items[idx].RecordCount(actual); err != nil {
				return err
			}
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Check item not found")
}

// Summary scans the items once and aggregates the check outcome.
// Uncounted items contribute nothing to the difference figures.
func (c *InventoryCheck) Summary() CheckSummary {
	summary := CheckSummary{
		TotalItems:      len(c.Items),
		TotalDifference: decimal.Zero,
		AbsDifference:   decimal.Zero,
	}

	for idx := range c.Items {
		item := &c.Items[idx]
		if !item.IsCounted() {
			summary.UncountedItems++
			continue
		}

		summary.CountedItems++
		switch {
		case ledger.IsShortage(item.Difference):
			summary.ShortageItems++
		case ledger.IsOverage(item.Difference):
			summary.OverageItems++
		default:
			summary.MatchedItems++
		}
		summary.TotalDifference = summary.TotalDifference.Add(item.Difference)
		summary.AbsDifference = summary.AbsDifference.Add(item.Difference.Abs())
	}

	return summary
}

// Complete finalizes the check. Completing an already completed check fails
// rather than succeeding idempotently, so callers learn about double submits.
// Requires at least one item; uncounted items are allowed.
func (c *InventoryCheck) Complete(actor uuid.UUID) error {
	if !c.Status.CanTransitionTo(InventoryCheckStatusCompleted) {
		return shared.NewInvalidTransitionError(c.Status.String(), InventoryCheckStatusCompleted.String())
	}
	if len(c.Items) == 0 {
		return shared.NewValidationError("Cannot complete a check without items")
	}

	now := time.Now()
	c.Status = InventoryCheckStatusCompleted
	c.CompletedAt = &now
	c.CompletedBy = &actor
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewInventoryCheckCompletedEvent(c))

	return nil
}

// FindItem returns the item for a product, or nil
func (c *InventoryCheck) FindItem(productID uuid.UUID) *InventoryCheckItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}
