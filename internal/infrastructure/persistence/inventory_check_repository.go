package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/inventory"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormInventoryCheckRepository implements InventoryCheckRepository using GORM
type GormInventoryCheckRepository struct {
	db *gorm.DB
}

// NewGormInventoryCheckRepository creates a new GormInventoryCheckRepository
func NewGormInventoryCheckRepository(db *gorm.DB) *GormInventoryCheckRepository {
	return &GormInventoryCheckRepository{db: db}
}

// FindByID finds an inventory check by its ID
func (r *GormInventoryCheckRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryCheck, error) {
	var model models.InventoryCheckModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds inventory checks with filtering, pagination and sorting
func (r *GormInventoryCheckRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryCheck, error) {
	var checkModels []models.InventoryCheckModel

	query := r.db.WithContext(ctx).Model(&models.InventoryCheckModel{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&checkModels).Error; err != nil {
		return nil, err
	}

	checks := make([]inventory.InventoryCheck, len(checkModels))
	for i := range checkModels {
		checks[i] = *checkModels[i].ToDomain()
	}
	return checks, nil
}

// Count counts inventory checks matching the filter
func (r *GormInventoryCheckRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InventoryCheckModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an inventory check together with its items
func (r *GormInventoryCheckRepository) Save(ctx context.Context, check *inventory.InventoryCheck) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InventoryCheckModelFromDomain(check)

		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		return r.saveItems(tx, check)
	})
}

// SaveWithLock persists the check only when the stored version matches
// expectedVersion, otherwise returns ErrConcurrencyConflict.
func (r *GormInventoryCheckRepository) SaveWithLock(ctx context.Context, check *inventory.InventoryCheck, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InventoryCheckModelFromDomain(check)

		result := tx.Model(&models.InventoryCheckModel{}).
			Where("id = ? AND version = ?", check.ID, expectedVersion).
			Updates(map[string]any{
				"name":         model.Name,
				"status":       model.Status,
				"note":         model.Note,
				"completed_at": model.CompletedAt,
				"completed_by": model.CompletedBy,
				"version":      model.Version,
				"updated_at":   model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.lockFailure(tx, check.ID)
		}

		return r.saveItems(tx, check)
	})
}

// Delete removes an inventory check and its items
func (r *GormInventoryCheckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("check_id = ?", id).
			Delete(&models.InventoryCheckItemModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.InventoryCheckModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateCheckNumber generates a unique check number.
// Format: IC + date + sequence (e.g., IC20260828-0001)
func (r *GormInventoryCheckRepository) GenerateCheckNumber(ctx context.Context) (string, error) {
	return generateSequentialNumber(ctx, r.db, &models.InventoryCheckModel{}, "check_number", "IC")
}

// saveItems reconciles the item rows with the aggregate's current items
func (r *GormInventoryCheckRepository) saveItems(tx *gorm.DB, check *inventory.InventoryCheck) error {
	currentIDs := make([]uuid.UUID, len(check.Items))
	for i, item := range check.Items {
		currentIDs[i] = item.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("check_id = ? AND id NOT IN ?", check.ID, currentIDs).
			Delete(&models.InventoryCheckItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("check_id = ?", check.ID).
			Delete(&models.InventoryCheckItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range check.Items {
		check.Items[i].CheckID = check.ID
		itemModel := models.InventoryCheckItemModelFromDomain(&check.Items[i])
		if err := tx.Save(itemModel).Error; err != nil {
			return err
		}
	}

	return nil
}

// lockFailure distinguishes a missing row from a version mismatch
func (r *GormInventoryCheckRepository) lockFailure(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.InventoryCheckModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// applyFilter applies filter options to the query
func (r *GormInventoryCheckRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = applyPagination(query, filter)
	return applySorting(query, filter, InventoryCheckSortFields)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInventoryCheckRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("check_number ILIKE ? OR name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

var _ inventory.InventoryCheckRepository = (*GormInventoryCheckRepository)(nil)
