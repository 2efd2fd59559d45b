package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/fulfillment"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	var model models.OrderModel
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

// FindAll finds orders with filtering, pagination and sorting
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.Order, error) {
	var orderModels []models.OrderModel

	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]fulfillment.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order together with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *fulfillment.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OrderModelFromDomain(order)

		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		return r.saveItems(tx, order)
	})
}

// SaveWithLock persists the order only when the stored version matches
// expectedVersion, otherwise returns ErrConcurrencyConflict.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *fulfillment.Order, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateWithVersion(tx, order, expectedVersion); err != nil {
			return err
		}
		return r.saveItems(tx, order)
	})
}

// SaveStatusChange persists the order and appends the history entry in one
// transaction, guarded by the version check. Either both rows land or neither.
func (r *GormOrderRepository) SaveStatusChange(ctx context.Context, order *fulfillment.Order, history *fulfillment.OrderHistory, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateWithVersion(tx, order, expectedVersion); err != nil {
			return err
		}

		historyModel := models.OrderHistoryModelFromDomain(history)
		return tx.Create(historyModel).Error
	})
}

// FindHistory returns the status transition log for an order, newest first
func (r *GormOrderRepository) FindHistory(ctx context.Context, orderID uuid.UUID) ([]fulfillment.OrderHistory, error) {
	var historyModels []models.OrderHistoryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	entries := make([]fulfillment.OrderHistory, len(historyModels))
	for i := range historyModels {
		entries[i] = *historyModels[i].ToDomain()
	}
	return entries, nil
}

// CountByStatus returns order counts grouped by fulfillment status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[fulfillment.OrderStatus]int64, error) {
	type statusCount struct {
		Status fulfillment.OrderStatus
		Total  int64
	}

	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[fulfillment.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// GenerateOrderCode generates a unique order code.
// Format: SO + date + sequence (e.g., SO20260828-0001)
func (r *GormOrderRepository) GenerateOrderCode(ctx context.Context) (string, error) {
	return generateSequentialNumber(ctx, r.db, &models.OrderModel{}, "order_code", "SO")
}

// updateWithVersion writes the order row guarded by the expected version
func (r *GormOrderRepository) updateWithVersion(tx *gorm.DB, order *fulfillment.Order, expectedVersion int) error {
	model := models.OrderModelFromDomain(order)

	result := tx.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(map[string]any{
			"customer_name":  model.CustomerName,
			"customer_phone": model.CustomerPhone,
			"address":        model.Address,
			"total_amount":   model.TotalAmount,
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"payment_method": model.PaymentMethod,
			"note":           model.Note,
			"confirmed_at":   model.ConfirmedAt,
			"packed_at":      model.PackedAt,
			"shipped_at":     model.ShippedAt,
			"delivered_at":   model.DeliveredAt,
			"cancelled_at":   model.CancelledAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.lockFailure(tx, order.ID)
	}
	return nil
}

// saveItems reconciles the item rows with the aggregate's current items
func (r *GormOrderRepository) saveItems(tx *gorm.DB, order *fulfillment.Order) error {
	currentIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		currentIDs[i] = item.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentIDs).
			Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		itemModel := models.OrderItemModelFromDomain(&order.Items[i])
		if err := tx.Save(itemModel).Error; err != nil {
			return err
		}
	}

	return nil
}

// lockFailure distinguishes a missing row from a version mismatch
func (r *GormOrderRepository) lockFailure(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.OrderModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = applyPagination(query, filter)
	return applySorting(query, filter, OrderSortFields)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_code ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
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

var _ fulfillment.OrderRepository = (*GormOrderRepository)(nil)
