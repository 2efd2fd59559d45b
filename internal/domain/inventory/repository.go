package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/shared"
)

// InventoryCheckRepository defines persistence operations for inventory checks
type InventoryCheckRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryCheck, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryCheck, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, check *InventoryCheck) error
	// SaveWithLock persists the check only when the stored version matches,
	// returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, check *InventoryCheck, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateCheckNumber(ctx context.Context) (string, error)
}
