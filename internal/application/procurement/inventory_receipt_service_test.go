package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retail/backoffice/internal/domain/procurement"
	"github.com/retail/backoffice/internal/domain/shared"
)

// MockInventoryReceiptRepository is a testify mock of procurement.InventoryReceiptRepository
type MockInventoryReceiptRepository struct {
	mock.Mock
}

func (m *MockInventoryReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.InventoryReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.InventoryReceipt), args.Error(1)
}

func (m *MockInventoryReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.InventoryReceipt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.InventoryReceipt), args.Error(1)
}

func (m *MockInventoryReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryReceiptRepository) Save(ctx context.Context, receipt *procurement.InventoryReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockInventoryReceiptRepository) SaveWithLock(ctx context.Context, receipt *procurement.InventoryReceipt, expectedVersion int) error {
	args := m.Called(ctx, receipt, expectedVersion)
	return args.Error(0)
}

func (m *MockInventoryReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockInventoryReceiptRepository) FindWithLinesExpiringBy(ctx context.Context, cutoff time.Time) ([]procurement.InventoryReceipt, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.InventoryReceipt), args.Error(1)
}

// capturingPublisher records every event handed to Publish
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newDraftReceipt(t *testing.T) *procurement.InventoryReceipt {
	t.Helper()
	receipt, err := procurement.NewInventoryReceipt("RC20260828-0001", uuid.New(), uuid.New(), "Acme Wholesale", uuid.New())
	require.NoError(t, err)
	receipt.ClearDomainEvents()
	return receipt
}

func TestInventoryReceiptServiceCreate(t *testing.T) {
	repo := new(MockInventoryReceiptRepository)
	service := NewInventoryReceiptService(repo)
	publisher := &capturingPublisher{}
	service.SetEventPublisher(publisher)

	repo.On("GenerateReceiptNumber", mock.Anything).Return("RC20260828-0001", nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.InventoryReceipt")).Return(nil)

	purchaseOrderID := uuid.New()
	expiry := time.Now().AddDate(0, 2, 0)
	resp, err := service.Create(context.Background(), uuid.New(), CreateInventoryReceiptRequest{
		PurchaseOrderID: purchaseOrderID,
		SupplierID:      uuid.New(),
		SupplierName:    "Acme Wholesale",
		Lines: []CreateInventoryReceiptLineInput{
			{VariantID: uuid.New(), VariantName: "Milk 1L", Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(2), BatchNumber: "B1", ExpiryDate: &expiry},
			{VariantID: uuid.New(), VariantName: "Flour 5kg", Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(8)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, purchaseOrderID, resp.PurchaseOrderID)
	assert.Len(t, resp.Lines, 2)
	assert.True(t, decimal.NewFromInt(80).Equal(resp.TotalAmount))
	assert.True(t, decimal.NewFromInt(25).Equal(resp.TotalQuantity))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, procurement.EventTypeInventoryReceiptCreated, publisher.events[0].EventType())
	repo.AssertExpectations(t)
}

func TestInventoryReceiptServiceCreateRejectsNilPurchaseOrder(t *testing.T) {
	repo := new(MockInventoryReceiptRepository)
	service := NewInventoryReceiptService(repo)

	repo.On("GenerateReceiptNumber", mock.Anything).Return("RC20260828-0001", nil)

	_, err := service.Create(context.Background(), uuid.New(), CreateInventoryReceiptRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Acme Wholesale",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInventoryReceiptServicePost(t *testing.T) {
	t.Run("posts draft receipt and publishes the event", func(t *testing.T) {
		repo := new(MockInventoryReceiptRepository)
		service := NewInventoryReceiptService(repo)
		publisher := &capturingPublisher{}
		service.SetEventPublisher(publisher)

		receipt := newDraftReceipt(t)
		_, err := receipt.AddLine(uuid.New(), "Milk 1L", decimal.NewFromInt(1), decimal.NewFromInt(1), "", nil)
		require.NoError(t, err)
		versionBefore := receipt.GetVersion()

		repo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		repo.On("SaveWithLock", mock.Anything, receipt, versionBefore).Return(nil)

		resp, err := service.Post(context.Background(), receipt.ID)

		require.NoError(t, err)
		assert.Equal(t, "posted", resp.Status)
		assert.NotNil(t, resp.PostedAt)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, procurement.EventTypeInventoryReceiptPosted, publisher.events[0].EventType())
	})

	t.Run("cancelling publishes the event", func(t *testing.T) {
		repo := new(MockInventoryReceiptRepository)
		service := NewInventoryReceiptService(repo)
		publisher := &capturingPublisher{}
		service.SetEventPublisher(publisher)

		receipt := newDraftReceipt(t)
		repo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		repo.On("SaveWithLock", mock.Anything, receipt, mock.Anything).Return(nil)

		resp, err := service.Cancel(context.Background(), receipt.ID, CancelRequest{Reason: "ordered twice"})

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, procurement.EventTypeInventoryReceiptCancelled, publisher.events[0].EventType())
	})

	t.Run("posting empty receipt fails before save", func(t *testing.T) {
		repo := new(MockInventoryReceiptRepository)
		service := NewInventoryReceiptService(repo)

		receipt := newDraftReceipt(t)
		repo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)

		_, err := service.Post(context.Background(), receipt.ID)

		require.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInventoryReceiptServiceExpiringReport(t *testing.T) {
	repo := new(MockInventoryReceiptRepository)
	service := NewInventoryReceiptService(repo)

	receipt := newDraftReceipt(t)
	soon := time.Now().AddDate(0, 0, 5)
	far := time.Now().AddDate(0, 0, 120)
	_, err := receipt.AddLine(uuid.New(), "Milk 1L", decimal.NewFromInt(10), decimal.NewFromInt(2), "B1", &soon)
	require.NoError(t, err)
	_, err = receipt.AddLine(uuid.New(), "Honey", decimal.NewFromInt(3), decimal.NewFromInt(6), "B2", &far)
	require.NoError(t, err)

	repo.On("FindWithLinesExpiringBy", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]procurement.InventoryReceipt{*receipt}, nil)

	report, err := service.ExpiringReport(context.Background(), 30)

	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "Milk 1L", report[0].VariantName)
	assert.Equal(t, "RC20260828-0001", report[0].ReceiptNumber)
	assert.False(t, report[0].IsExpired)
	assert.LessOrEqual(t, report[0].DaysUntilExpiry, 5)
}
