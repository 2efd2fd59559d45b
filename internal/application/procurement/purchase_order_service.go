package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/procurement"
	"github.com/retail/backoffice/internal/domain/shared"
)

// PurchaseOrderService handles purchase order use cases
type PurchaseOrderService struct {
	orderRepo      procurement.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo procurement.PurchaseOrderRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo: orderRepo,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order in draft status
func (s *PurchaseOrderService) Create(ctx context.Context, actor uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(orderNumber, req.SupplierID, req.SupplierName, actor)
	if err != nil {
		return nil, err
	}

	for _, d := range req.Details {
		if _, err := order.AddDetail(d.ProductID, d.ProductName, d.Quantity, d.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.Note != "" {
		order.SetNote(req.Note)
	}

	if err := s.saveAndPublish(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := buildOrderFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderResponses(orders), total, nil
}

// AddDetail adds a detail line to a draft order
func (s *PurchaseOrderService) AddDetail(ctx context.Context, orderID uuid.UUID, req AddPurchaseOrderDetailRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()
	if _, err := order.AddDetail(req.ProductID, req.ProductName, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateDetail updates a detail line on a draft order
func (s *PurchaseOrderService) UpdateDetail(ctx context.Context, orderID, productID uuid.UUID, req UpdatePurchaseOrderDetailRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()
	if err := order.UpdateDetail(productID, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveDetail removes a detail line from a draft order
func (s *PurchaseOrderService) RemoveDetail(ctx context.Context, orderID, productID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()
	if err := order.RemoveDetail(productID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Place transitions a draft order to ordered
func (s *PurchaseOrderService) Place(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Place()
	})
}

// Receive transitions an ordered order to received
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, req ReceivePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Receive(req.ReceiptID)
	})
}

// Cancel cancels a draft or ordered order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelRequest) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *procurement.PurchaseOrder) error {
		return order.Cancel(req.Reason)
	})
}

func (s *PurchaseOrderService) transition(ctx context.Context, orderID uuid.UUID, mutate func(*procurement.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()
	if err := mutate(order); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) saveAndPublish(ctx context.Context, order *procurement.PurchaseOrder) error {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	s.publish(ctx, events)
	return nil
}

func (s *PurchaseOrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Events are informational; publish failures must not fail the request.
	_ = s.eventPublisher.Publish(ctx, events...)
}

func buildOrderFilter(filter PurchaseOrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.FromDate != nil {
		domainFilter.Filters["start_date"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		domainFilter.Filters["end_date"] = *filter.ToDate
	}

	return domainFilter
}
