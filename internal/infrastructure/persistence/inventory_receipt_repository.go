package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/procurement"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormInventoryReceiptRepository implements InventoryReceiptRepository using GORM
type GormInventoryReceiptRepository struct {
	db *gorm.DB
}

// NewGormInventoryReceiptRepository creates a new GormInventoryReceiptRepository
func NewGormInventoryReceiptRepository(db *gorm.DB) *GormInventoryReceiptRepository {
	return &GormInventoryReceiptRepository{db: db}
}

// FindByID finds an inventory receipt by its ID
func (r *GormInventoryReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.InventoryReceipt, error) {
	var model models.InventoryReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds inventory receipts with filtering, pagination and sorting
func (r *GormInventoryReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.InventoryReceipt, error) {
	var receiptModels []models.InventoryReceiptModel

	query := r.db.WithContext(ctx).Model(&models.InventoryReceiptModel{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Lines").Find(&receiptModels).Error; err != nil {
		return nil, err
	}

	receipts := make([]procurement.InventoryReceipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = *receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// Count counts inventory receipts matching the filter
func (r *GormInventoryReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InventoryReceiptModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an inventory receipt together with its lines
func (r *GormInventoryReceiptRepository) Save(ctx context.Context, receipt *procurement.InventoryReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InventoryReceiptModelFromDomain(receipt)

		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return err
		}

		return r.saveLines(tx, receipt)
	})
}

// SaveWithLock persists the receipt only when the stored version matches
// expectedVersion, otherwise returns ErrConcurrencyConflict.
func (r *GormInventoryReceiptRepository) SaveWithLock(ctx context.Context, receipt *procurement.InventoryReceipt, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InventoryReceiptModelFromDomain(receipt)

		result := tx.Model(&models.InventoryReceiptModel{}).
			Where("id = ? AND version = ?", receipt.ID, expectedVersion).
			Updates(map[string]any{
				"supplier_id":   model.SupplierID,
				"supplier_name": model.SupplierName,
				"status":        model.Status,
				"note":          model.Note,
				"posted_at":     model.PostedAt,
				"cancelled_at":  model.CancelledAt,
				"cancel_reason": model.CancelReason,
				"version":       model.Version,
				"updated_at":    model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.lockFailure(tx, receipt.ID)
		}

		return r.saveLines(tx, receipt)
	})
}

// Delete removes an inventory receipt and its lines
func (r *GormInventoryReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", id).
			Delete(&models.InventoryReceiptLineModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.InventoryReceiptModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateReceiptNumber generates a unique receipt number.
// Format: RC + date + sequence (e.g., RC20260828-0001)
func (r *GormInventoryReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	return generateSequentialNumber(ctx, r.db, &models.InventoryReceiptModel{}, "receipt_number", "RC")
}

// FindWithLinesExpiringBy returns posted receipts having at least one line
// whose expiry date is on or before the cutoff.
func (r *GormInventoryReceiptRepository) FindWithLinesExpiringBy(ctx context.Context, cutoff time.Time) ([]procurement.InventoryReceipt, error) {
	var receiptIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryReceiptLineModel{}).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", cutoff).
		Distinct("receipt_id").
		Pluck("receipt_id", &receiptIDs).Error; err != nil {
		return nil, err
	}

	if len(receiptIDs) == 0 {
		return []procurement.InventoryReceipt{}, nil
	}

	var receiptModels []models.InventoryReceiptModel
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", receiptIDs, procurement.InventoryReceiptStatusPosted).
		Order("posted_at ASC").
		Preload("Lines").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}

	receipts := make([]procurement.InventoryReceipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = *receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// saveLines reconciles the line rows with the aggregate's current lines
func (r *GormInventoryReceiptRepository) saveLines(tx *gorm.DB, receipt *procurement.InventoryReceipt) error {
	currentIDs := make([]uuid.UUID, len(receipt.Lines))
	for i, line := range receipt.Lines {
		currentIDs[i] = line.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("receipt_id = ? AND id NOT IN ?", receipt.ID, currentIDs).
			Delete(&models.InventoryReceiptLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("receipt_id = ?", receipt.ID).
			Delete(&models.InventoryReceiptLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range receipt.Lines {
		receipt.Lines[i].ReceiptID = receipt.ID
		lineModel := models.InventoryReceiptLineModelFromDomain(&receipt.Lines[i])
		if err := tx.Save(lineModel).Error; err != nil {
			return err
		}
	}

	return nil
}

// lockFailure distinguishes a missing row from a version mismatch
func (r *GormInventoryReceiptRepository) lockFailure(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.InventoryReceiptModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// applyFilter applies filter options to the query
func (r *GormInventoryReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = applyPagination(query, filter)
	return applySorting(query, filter, InventoryReceiptSortFields)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInventoryReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "purchase_order_id":
			query = query.Where("purchase_order_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "expiring_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("id IN (?)", r.db.
					Model(&models.InventoryReceiptLineModel{}).
					Select("receipt_id").
					Where("expiry_date IS NOT NULL AND expiry_date <= ?", t))
			}
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

var _ procurement.InventoryReceiptRepository = (*GormInventoryReceiptRepository)(nil)
