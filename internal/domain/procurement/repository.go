package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/shared"
)

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	// SaveWithLock persists the order only when the stored version matches,
	// returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, order *PurchaseOrder, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	// GenerateOrderNumber produces the next order number, e.g. PO20260828-0001
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// InventoryReceiptRepository defines persistence operations for inventory receipts
type InventoryReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryReceipt, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryReceipt, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, receipt *InventoryReceipt) error
	SaveWithLock(ctx context.Context, receipt *InventoryReceipt, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateReceiptNumber(ctx context.Context) (string, error)
	// FindWithLinesExpiringBy returns posted receipts having at least one
	// line whose expiry date is on or before the cutoff.
	FindWithLinesExpiringBy(ctx context.Context, cutoff time.Time) ([]InventoryReceipt, error)
}
