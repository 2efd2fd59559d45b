package fulfillment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retail/backoffice/internal/domain/fulfillment"
	"github.com/retail/backoffice/internal/domain/shared"
)

// MockOrderRepository is a testify mock of fulfillment.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *fulfillment.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *fulfillment.Order, expectedVersion int) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveStatusChange(ctx context.Context, order *fulfillment.Order, history *fulfillment.OrderHistory, expectedVersion int) error {
	args := m.Called(ctx, order, history, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) FindHistory(ctx context.Context, orderID uuid.UUID) ([]fulfillment.OrderHistory, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.OrderHistory), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[fulfillment.OrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[fulfillment.OrderStatus]int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockIdempotencyStore is a testify mock of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestOrder(t *testing.T, method fulfillment.PaymentMethod) *fulfillment.Order {
	t.Helper()
	order, err := fulfillment.NewOrder("SO20260828-0001", "Jane Doe", "555-0100", "1 Main St", method, uuid.New())
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Widget", decimal.NewFromInt(2), decimal.NewFromInt(15))
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func advanceOrderTo(t *testing.T, order *fulfillment.Order, target fulfillment.OrderStatus) {
	t.Helper()
	path := []fulfillment.OrderStatus{
		fulfillment.OrderStatusProcessing,
		fulfillment.OrderStatusConfirmed,
		fulfillment.OrderStatusPreparing,
		fulfillment.OrderStatusPacked,
		fulfillment.OrderStatusShipping,
		fulfillment.OrderStatusDelivered,
	}
	for _, step := range path {
		if order.Status == target {
			return
		}
		_, err := order.ChangeStatus(step, uuid.New(), "", true)
		require.NoError(t, err)
	}
	require.Equal(t, target, order.Status)
}

func TestOrderServiceCreate(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewOrderService(repo)

	repo.On("GenerateOrderCode", mock.Anything).Return("SO20260828-0001", nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*fulfillment.Order")).Return(nil)

	resp, err := service.Create(context.Background(), uuid.New(), CreateOrderRequest{
		CustomerName:  "Jane Doe",
		PaymentMethod: "cod",
		Items: []CreateOrderItemInput{
			{ProductID: uuid.New(), ProductName: "Widget", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(15)},
			{ProductID: uuid.New(), ProductName: "Gadget", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(9)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "new", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.True(t, decimal.NewFromInt(39).Equal(resp.TotalAmount))
	repo.AssertExpectations(t)
}

func TestOrderServiceList(t *testing.T) {
	t.Run("comma-joined status set becomes an IN filter", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo)

		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			statuses, ok := f.Filters["statuses"].([]string)
			return ok && len(statuses) == 2 && statuses[0] == "packed" && statuses[1] == "shipping"
		})).Return([]fulfillment.Order{}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, _, err := service.List(context.Background(), OrderListFilter{
			OrderStatus: "packed, shipping",
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown status in the set is rejected", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo)

		_, _, err := service.List(context.Background(), OrderListFilter{
			OrderStatus: "packed,teleported",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("date range maps to creation bounds", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo)

		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["start_date"] == from && f.Filters["end_date"] == to
		})).Return([]fulfillment.Order{}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, _, err := service.List(context.Background(), OrderListFilter{
			FromDate: &from,
			ToDate:   &to,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestOrderServiceChangeStatus(t *testing.T) {
	t.Run("persists order and history atomically", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo)

		order := newTestOrder(t, fulfillment.PaymentMethodBankTransfer)
		versionBefore := order.GetVersion()

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("SaveStatusChange", mock.Anything, order, mock.MatchedBy(func(h *fulfillment.OrderHistory) bool {
			return h.FromStatus == fulfillment.OrderStatusNew && h.ToStatus == fulfillment.OrderStatusProcessing
		}), versionBefore).Return(nil)

		resp, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "", ChangeStatusRequest{
			Status: "processing",
		})

		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("invalid transition fails before save", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo)

		order := newTestOrder(t, fulfillment.PaymentMethodCard)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "", ChangeStatusRequest{
			Status: "delivered",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidTransition, domainErr.Code)
		repo.AssertNotCalled(t, "SaveStatusChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivering COD without confirmation fails", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo)

		order := newTestOrder(t, fulfillment.PaymentMethodCOD)
		advanceOrderTo(t, order, fulfillment.OrderStatusShipping)
		order.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "", ChangeStatusRequest{
			Status: "delivered",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})

	t.Run("delivering COD with confirmation settles payment", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo)

		order := newTestOrder(t, fulfillment.PaymentMethodCOD)
		advanceOrderTo(t, order, fulfillment.OrderStatusShipping)
		order.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("SaveStatusChange", mock.Anything, order, mock.Anything, mock.Anything).Return(nil)

		resp, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "", ChangeStatusRequest{
			Status:         "delivered",
			ConfirmPayment: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "delivered", resp.Status)
		assert.Equal(t, "paid", resp.PaymentStatus)
	})

	t.Run("replayed idempotency key skips the transition", func(t *testing.T) {
		repo := new(MockOrderRepository)
		store := new(MockIdempotencyStore)
		service := NewOrderService(repo)
		service.SetIdempotencyStore(store, shared.DefaultIdempotencyConfig())

		order := newTestOrder(t, fulfillment.PaymentMethodCard)

		store.On("IsProcessed", mock.Anything, "req-42").Return(true, nil)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		resp, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "req-42", ChangeStatusRequest{
			Status: "processing",
		})

		require.NoError(t, err)
		assert.Equal(t, "new", resp.Status)
		repo.AssertNotCalled(t, "SaveStatusChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("key is recorded only after the transition commits", func(t *testing.T) {
		repo := new(MockOrderRepository)
		store := new(MockIdempotencyStore)
		service := NewOrderService(repo)
		service.SetIdempotencyStore(store, shared.DefaultIdempotencyConfig())

		order := newTestOrder(t, fulfillment.PaymentMethodCard)

		store.On("IsProcessed", mock.Anything, "req-42").Return(false, nil)
		store.On("MarkProcessed", mock.Anything, "req-42", mock.Anything).Return(true, nil)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("SaveStatusChange", mock.Anything, order, mock.Anything, mock.Anything).Return(nil)

		resp, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "req-42", ChangeStatusRequest{
			Status: "processing",
		})

		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
		store.AssertCalled(t, "MarkProcessed", mock.Anything, "req-42", mock.Anything)
	})

	t.Run("rejected transition leaves the key usable for a retry", func(t *testing.T) {
		repo := new(MockOrderRepository)
		store := new(MockIdempotencyStore)
		service := NewOrderService(repo)
		service.SetIdempotencyStore(store, shared.DefaultIdempotencyConfig())

		order := newTestOrder(t, fulfillment.PaymentMethodCard)
		advanceOrderTo(t, order, fulfillment.OrderStatusPacked)
		order.ClearDomainEvents()

		store.On("IsProcessed", mock.Anything, "drag-42").Return(false, nil)
		store.On("MarkProcessed", mock.Anything, "drag-42", mock.Anything).Return(true, nil)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("SaveStatusChange", mock.Anything, order, mock.Anything, mock.Anything).Return(nil)

		// packed cannot reach delivered directly; the attempt must fail
		// without consuming the key.
		_, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "drag-42", ChangeStatusRequest{
			Status: "delivered",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidTransition, domainErr.Code)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)

		resp, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "drag-42", ChangeStatusRequest{
			Status: "shipping",
		})

		require.NoError(t, err)
		assert.Equal(t, "shipping", resp.Status)
		repo.AssertCalled(t, "SaveStatusChange", mock.Anything, order, mock.Anything, mock.Anything)
	})

	t.Run("failed save leaves the key usable for a retry", func(t *testing.T) {
		repo := new(MockOrderRepository)
		store := new(MockIdempotencyStore)
		service := NewOrderService(repo)
		service.SetIdempotencyStore(store, shared.DefaultIdempotencyConfig())

		order := newTestOrder(t, fulfillment.PaymentMethodCard)

		store.On("IsProcessed", mock.Anything, "req-42").Return(false, nil)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("SaveStatusChange", mock.Anything, order, mock.Anything, mock.Anything).
			Return(shared.ErrConcurrencyConflict)

		_, err := service.ChangeStatus(context.Background(), order.ID, uuid.New(), "req-42", ChangeStatusRequest{
			Status: "processing",
		})

		require.Error(t, err)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderServiceBoard(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewOrderService(repo)

	order := newTestOrder(t, fulfillment.PaymentMethodCard)

	repo.On("CountByStatus", mock.Anything).Return(map[fulfillment.OrderStatus]int64{
		fulfillment.OrderStatusNew:      3,
		fulfillment.OrderStatusShipping: 1,
	}, nil)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "new"
	})).Return([]fulfillment.Order{*order}, nil)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "shipping"
	})).Return([]fulfillment.Order{}, nil)

	board, err := service.Board(context.Background(), BoardFilter{
		Statuses: []string{"new", "shipping"},
	})

	require.NoError(t, err)
	require.Len(t, board.Columns, 2)
	assert.Equal(t, "new", board.Columns[0].Status)
	assert.Equal(t, int64(3), board.Columns[0].Total)
	assert.Len(t, board.Columns[0].Orders, 1)
	assert.Equal(t, int64(1), board.Columns[1].Total)
	assert.Empty(t, board.Columns[1].Orders)
}

func TestOrderServiceBoardRejectsUnknownStatus(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewOrderService(repo)

	_, err := service.Board(context.Background(), BoardFilter{Statuses: []string{"teleported"}})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
	repo.AssertNotCalled(t, "CountByStatus", mock.Anything)
}

func TestOrderServiceHistory(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewOrderService(repo)

	order := newTestOrder(t, fulfillment.PaymentMethodCard)
	history, err := order.ChangeStatus(fulfillment.OrderStatusProcessing, uuid.New(), "picked up", false)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("FindHistory", mock.Anything, order.ID).Return([]fulfillment.OrderHistory{*history}, nil)

	entries, err := service.History(context.Background(), order.ID)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].FromStatus)
	assert.Equal(t, "processing", entries[0].ToStatus)
	assert.Equal(t, "picked up", entries[0].Note)
}

func TestOrderServiceMarkPaid(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewOrderService(repo)

	order := newTestOrder(t, fulfillment.PaymentMethodBankTransfer)
	versionBefore := order.GetVersion()

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("SaveWithLock", mock.Anything, order, versionBefore).Return(nil)

	resp, err := service.MarkPaid(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
}
