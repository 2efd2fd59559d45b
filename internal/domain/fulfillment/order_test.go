package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail/backoffice/internal/domain/shared"
)

func createTestOrder(t *testing.T, method PaymentMethod) *Order {
	t.Helper()
	order, err := NewOrder("SO20260828-0001", "Jane Doe", "0900000000", "1 Main St", method, uuid.New())
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Test Product", decimal.NewFromInt(2), decimal.NewFromInt(50))
	require.NoError(t, err)
	return order
}

func advanceTo(t *testing.T, order *Order, target OrderStatus) {
	t.Helper()
	path := []OrderStatus{
		OrderStatusProcessing, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusPacked, OrderStatusShipping, OrderStatusDelivered,
	}
	for _, s := range path {
		if order.Status == target {
			return
		}
		_, err := order.ChangeStatus(s, uuid.New(), "", true)
		require.NoError(t, err)
		if s == target {
			return
		}
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestNewOrder(t *testing.T) {
	t.Run("starts new and pending", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)

		assert.Equal(t, OrderStatusNew, order.Status)
		assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
		assert.True(t, decimal.NewFromInt(100).Equal(order.TotalAmount))
	})

	t.Run("rejects invalid payment method", func(t *testing.T) {
		_, err := NewOrder("SO-1", "Jane", "", "", PaymentMethod("cheque"), uuid.New())
		assertDomainCode(t, err, shared.CodeValidation)
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		{OrderStatusNew, OrderStatusProcessing, true},
		{OrderStatusNew, OrderStatusCancelled, true},
		{OrderStatusNew, OrderStatusConfirmed, false},
		{OrderStatusProcessing, OrderStatusConfirmed, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPacked, false},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusPacked, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusPacked, OrderStatusShipping, true},
		{OrderStatusPacked, OrderStatusCancelled, false},
		{OrderStatusShipping, OrderStatusDelivered, true},
		{OrderStatusShipping, OrderStatusShippingFailed, true},
		{OrderStatusShipping, OrderStatusCancelled, false},
		{OrderStatusShippingFailed, OrderStatusShipping, true},
		{OrderStatusShippingFailed, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipping, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestChangeStatus(t *testing.T) {
	t.Run("returns history entry", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)
		actor := uuid.New()

		history, err := order.ChangeStatus(OrderStatusProcessing, actor, "picked up by staff", false)
		require.NoError(t, err)

		assert.Equal(t, OrderStatusProcessing, order.Status)
		assert.Equal(t, OrderStatusNew, history.FromStatus)
		assert.Equal(t, OrderStatusProcessing, history.ToStatus)
		assert.Equal(t, actor, history.Actor)
		assert.Equal(t, "picked up by staff", history.Note)
	})

	t.Run("invalid transition rejected", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)

		_, err := order.ChangeStatus(OrderStatusDelivered, uuid.New(), "", false)
		assertDomainCode(t, err, shared.CodeInvalidTransition)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)

		_, err := order.ChangeStatus(OrderStatus("lost"), uuid.New(), "", false)
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("stamps milestone timestamps", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)
		advanceTo(t, order, OrderStatusDelivered)

		assert.NotNil(t, order.ConfirmedAt)
		assert.NotNil(t, order.PackedAt)
		assert.NotNil(t, order.ShippedAt)
		assert.NotNil(t, order.DeliveredAt)
	})

	t.Run("re-dispatch after shipping failure", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)
		advanceTo(t, order, OrderStatusShipping)

		_, err := order.ChangeStatus(OrderStatusShippingFailed, uuid.New(), "customer absent", false)
		require.NoError(t, err)

		_, err = order.ChangeStatus(OrderStatusShipping, uuid.New(), "second attempt", false)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusShipping, order.Status)
	})
}

func TestCODDelivery(t *testing.T) {
	t.Run("requires payment confirmation", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCOD)
		advanceTo(t, order, OrderStatusShipping)

		_, err := order.ChangeStatus(OrderStatusDelivered, uuid.New(), "", false)
		assertDomainCode(t, err, shared.CodeValidation)
		assert.Equal(t, OrderStatusShipping, order.Status)
	})

	t.Run("confirmation settles payment", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCOD)
		advanceTo(t, order, OrderStatusShipping)

		_, err := order.ChangeStatus(OrderStatusDelivered, uuid.New(), "cash collected", true)
		require.NoError(t, err)

		assert.Equal(t, OrderStatusDelivered, order.Status)
		assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
	})

	t.Run("non-COD delivery needs no confirmation", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodBankTransfer)
		advanceTo(t, order, OrderStatusShipping)

		_, err := order.ChangeStatus(OrderStatusDelivered, uuid.New(), "", false)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	})
}

func TestPaymentStatus(t *testing.T) {
	t.Run("mark paid", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodBankTransfer)
		require.NoError(t, order.MarkPaid())
		assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
	})

	t.Run("double pay rejected", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodBankTransfer)
		require.NoError(t, order.MarkPaid())
		assertDomainCode(t, order.MarkPaid(), shared.CodeValidation)
	})

	t.Run("refund requires paid", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodBankTransfer)
		assertDomainCode(t, order.MarkRefunded(), shared.CodeValidation)

		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.MarkRefunded())
		assert.Equal(t, PaymentStatusRefunded, order.PaymentStatus)
	})

	t.Run("refunded cannot be paid again", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodBankTransfer)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.MarkRefunded())
		assertDomainCode(t, order.MarkPaid(), shared.CodeValidation)
	})

	t.Run("settled payment cannot fail", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodBankTransfer)
		require.NoError(t, order.MarkPaid())
		assertDomainCode(t, order.MarkPaymentFailed(), shared.CodeValidation)
	})

	t.Run("pending payment can fail", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)
		require.NoError(t, order.MarkPaymentFailed())
		assert.Equal(t, PaymentStatusFailed, order.PaymentStatus)
	})
}

func TestOrderItems(t *testing.T) {
	t.Run("item mutation only while new", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)
		_, err := order.ChangeStatus(OrderStatusProcessing, uuid.New(), "", false)
		require.NoError(t, err)

		_, err = order.AddItem(uuid.New(), "Late item", decimal.NewFromInt(1), decimal.NewFromInt(1))
		assertDomainCode(t, err, shared.CodeInvalidTransition)
	})

	t.Run("duplicate product rejected", func(t *testing.T) {
		order := createTestOrder(t, PaymentMethodCard)
		productID := order.Items[0].ProductID

		_, err := order.AddItem(productID, "Dup", decimal.NewFromInt(1), decimal.NewFromInt(1))
		assertDomainCode(t, err, shared.CodeValidation)
	})
}
