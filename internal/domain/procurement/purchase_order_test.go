package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail/backoffice/internal/domain/shared"
)

func createTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder("PO20260828-0001", uuid.New(), "Acme Wholesale", uuid.New())
	require.NoError(t, err)
	return order
}

func addTestDetail(t *testing.T, order *PurchaseOrder, qty, price string) *PurchaseOrderDetail {
	t.Helper()
	detail, err := order.AddDetail(uuid.New(), "Test Product", decimal.RequireFromString(qty), decimal.RequireFromString(price))
	require.NoError(t, err)
	return detail
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)

		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Empty(t, order.Details)
		assert.Equal(t, 1, order.GetVersion())
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder("", uuid.New(), "Acme", uuid.New())
		assertValidationError(t, err)
	})

	t.Run("rejects nil supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO-1", uuid.Nil, "Acme", uuid.New())
		assertValidationError(t, err)
	})
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		{PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusReceived, false},
		{PurchaseOrderStatusOrdered, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusOrdered, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusOrdered, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusOrdered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPurchaseOrderDetails(t *testing.T) {
	t.Run("add detail recalculates total", func(t *testing.T) {
		order := createTestPurchaseOrder(t)

		addTestDetail(t, order, "10", "2.50")
		assert.True(t, decimal.RequireFromString("25").Equal(order.TotalAmount))

		addTestDetail(t, order, "3", "5")
		assert.True(t, decimal.RequireFromString("40").Equal(order.TotalAmount))
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		productID := uuid.New()

		_, err := order.AddDetail(productID, "Widget", decimal.NewFromInt(1), decimal.NewFromInt(10))
		require.NoError(t, err)

		_, err = order.AddDetail(productID, "Widget", decimal.NewFromInt(2), decimal.NewFromInt(10))
		assertValidationError(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		_, err := order.AddDetail(uuid.New(), "Widget", decimal.Zero, decimal.NewFromInt(10))
		assertValidationError(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		_, err := order.AddDetail(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(-1))
		assertValidationError(t, err)
	})

	t.Run("update detail recalculates subtotal and total", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		detail := addTestDetail(t, order, "10", "2.50")

		err := order.UpdateDetail(detail.ProductID, decimal.NewFromInt(4), decimal.RequireFromString("3.25"))
		require.NoError(t, err)

		updated := order.FindDetail(detail.ProductID)
		require.NotNil(t, updated)
		assert.True(t, decimal.RequireFromString("13").Equal(updated.Subtotal))
		assert.True(t, decimal.RequireFromString("13").Equal(order.TotalAmount))
	})

	t.Run("remove detail recalculates total", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		first := addTestDetail(t, order, "10", "2.50")
		addTestDetail(t, order, "3", "5")

		err := order.RemoveDetail(first.ProductID)
		require.NoError(t, err)

		assert.Len(t, order.Details, 1)
		assert.True(t, decimal.RequireFromString("15").Equal(order.TotalAmount))
	})

	t.Run("update unknown detail returns not found", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.UpdateDetail(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})

	t.Run("detail mutation rejected after placing", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		detail := addTestDetail(t, order, "1", "1")
		require.NoError(t, order.Place())

		_, err := order.AddDetail(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(1))
		assertInvalidTransition(t, err)

		err = order.UpdateDetail(detail.ProductID, decimal.NewFromInt(2), decimal.NewFromInt(1))
		assertInvalidTransition(t, err)

		err = order.RemoveDetail(detail.ProductID)
		assertInvalidTransition(t, err)
	})
}

func assertInvalidTransition(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidTransition, domainErr.Code)
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	t.Run("place requires details", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.Place()
		assertValidationError(t, err)
	})

	t.Run("place sets status and timestamp", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestDetail(t, order, "2", "10")

		require.NoError(t, order.Place())

		assert.Equal(t, PurchaseOrderStatusOrdered, order.Status)
		assert.NotNil(t, order.OrderedAt)
	})

	t.Run("receive links receipt", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestDetail(t, order, "2", "10")
		require.NoError(t, order.Place())

		receiptID := uuid.New()
		require.NoError(t, order.Receive(&receiptID))

		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
		assert.NotNil(t, order.ReceivedAt)
		require.NotNil(t, order.ReceiptID)
		assert.Equal(t, receiptID, *order.ReceiptID)
	})

	t.Run("receive from draft rejected", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestDetail(t, order, "2", "10")

		err := order.Receive(nil)
		assertInvalidTransition(t, err)
	})

	t.Run("cancel requires reason", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.Cancel("")
		assertValidationError(t, err)
	})

	t.Run("cancel from ordered", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestDetail(t, order, "2", "10")
		require.NoError(t, order.Place())

		require.NoError(t, order.Cancel("supplier out of stock"))

		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
		assert.Equal(t, "supplier out of stock", order.CancelReason)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("cancel after received rejected", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestDetail(t, order, "2", "10")
		require.NoError(t, order.Place())
		require.NoError(t, order.Receive(nil))

		err := order.Cancel("too late")
		assertInvalidTransition(t, err)
	})
}
