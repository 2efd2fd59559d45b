package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/retail/backoffice/internal/domain/procurement"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderDetailModel{},
		&models.InventoryReceiptModel{},
		&models.InventoryReceiptLineModel{},
		&models.InventoryCheckModel{},
		&models.InventoryCheckItemModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderHistoryModel{},
	))

	return db
}

func newDraftPurchaseOrder(t *testing.T, orderNumber string) *procurement.PurchaseOrder {
	t.Helper()

	order, err := procurement.NewPurchaseOrder(orderNumber, uuid.New(), "Acme Supplies", uuid.New())
	require.NoError(t, err)

	_, err = order.AddDetail(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromFloat(2.50))
	require.NoError(t, err)

	return order
}

func TestPurchaseOrderRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftPurchaseOrder(t, "PO20260828-0001")
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, "PO20260828-0001", found.OrderNumber)
	assert.Equal(t, "Acme Supplies", found.SupplierName)
	assert.Equal(t, procurement.PurchaseOrderStatusDraft, found.Status)
	require.Len(t, found.Details, 1)
	assert.Equal(t, "Widget", found.Details[0].ProductName)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(25)))
}

func TestPurchaseOrderRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftPurchaseOrder(t, "PO20260828-0001")
	require.NoError(t, repo.Save(ctx, order))

	expectedVersion := order.GetVersion()
	require.NoError(t, order.Place())

	require.NoError(t, repo.SaveWithLock(ctx, order, expectedVersion))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.PurchaseOrderStatusOrdered, found.Status)
	assert.Equal(t, expectedVersion+1, found.GetVersion())
	assert.NotNil(t, found.OrderedAt)
}

func TestPurchaseOrderRepository_SaveWithLock_Conflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftPurchaseOrder(t, "PO20260828-0001")
	require.NoError(t, repo.Save(ctx, order))

	staleVersion := order.GetVersion()

	require.NoError(t, order.Place())
	require.NoError(t, repo.SaveWithLock(ctx, order, staleVersion))

	// second writer using the stale version must fail
	err := repo.SaveWithLock(ctx, order, staleVersion)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestPurchaseOrderRepository_SaveWithLock_MissingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	order := newDraftPurchaseOrder(t, "PO20260828-0001")

	err := repo.SaveWithLock(context.Background(), order, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderRepository_SaveReconcilesDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftPurchaseOrder(t, "PO20260828-0001")
	removedProduct := uuid.New()
	_, err := order.AddDetail(removedProduct, "Gadget", decimal.NewFromInt(5), decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.RemoveDetail(removedProduct))
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Details, 1)
	assert.Equal(t, "Widget", found.Details[0].ProductName)

	var orphanCount int64
	require.NoError(t, db.Model(&models.PurchaseOrderDetailModel{}).Count(&orphanCount).Error)
	assert.EqualValues(t, 1, orphanCount)
}

func TestPurchaseOrderRepository_FindAllWithStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	draft := newDraftPurchaseOrder(t, "PO20260828-0001")
	require.NoError(t, repo.Save(ctx, draft))

	placed := newDraftPurchaseOrder(t, "PO20260828-0002")
	require.NoError(t, placed.Place())
	require.NoError(t, repo.Save(ctx, placed))

	filter := shared.DefaultFilter()
	filter.Filters = map[string]any{"status": string(procurement.PurchaseOrderStatusOrdered)}

	orders, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "PO20260828-0002", orders[0].OrderNumber)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPurchaseOrderRepository_FindAllPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		order := newDraftPurchaseOrder(t, fmt.Sprintf("PO20260828-%04d", i))
		require.NoError(t, repo.Save(ctx, order))
	}

	filter := shared.Filter{Page: 2, PageSize: 2, OrderBy: "order_number", OrderDir: "asc"}

	orders, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "PO20260828-0003", orders[0].OrderNumber)
	assert.Equal(t, "PO20260828-0004", orders[1].OrderNumber)
}

func TestPurchaseOrderRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftPurchaseOrder(t, "PO20260828-0001")
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, repo.Delete(ctx, order.ID))

	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var detailCount int64
	require.NoError(t, db.Model(&models.PurchaseOrderDetailModel{}).Count(&detailCount).Error)
	assert.EqualValues(t, 0, detailCount)
}

func TestPurchaseOrderRepository_Delete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderRepository_ExistsByOrderNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newDraftPurchaseOrder(t, "PO20260828-0001")
	require.NoError(t, repo.Save(ctx, order))

	exists, err := repo.ExistsByOrderNumber(ctx, "PO20260828-0001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByOrderNumber(ctx, "PO20260828-9999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPurchaseOrderRepository_GenerateOrderNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	datePart := time.Now().Format("20060102")

	first, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PO"+datePart+"-0001", first)

	order := newDraftPurchaseOrder(t, first)
	require.NoError(t, repo.Save(ctx, order))

	second, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PO"+datePart+"-0002", second)
}
