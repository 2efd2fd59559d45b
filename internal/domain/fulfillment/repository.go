package fulfillment

import (
	"context"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/shared"
)

// OrderRepository defines persistence operations for fulfillment orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithLock persists the order only when the stored version matches,
	// returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error
	// SaveStatusChange persists the order and appends the history entry in
	// one transaction, guarded by the version check.
	SaveStatusChange(ctx context.Context, order *Order, history *OrderHistory, expectedVersion int) error
	FindHistory(ctx context.Context, orderID uuid.UUID) ([]OrderHistory, error)
	// CountByStatus returns order counts grouped by fulfillment status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)
	GenerateOrderCode(ctx context.Context) (string, error)
}
