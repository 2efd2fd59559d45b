package fulfillment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/fulfillment"
	"github.com/retail/backoffice/internal/domain/shared"
)

// DefaultBoardStatuses are the kanban lanes shown when none are requested
var DefaultBoardStatuses = []fulfillment.OrderStatus{
	fulfillment.OrderStatusPacked,
	fulfillment.OrderStatusShipping,
	fulfillment.OrderStatusDelivered,
	fulfillment.OrderStatusShippingFailed,
}

// OrderService handles fulfillment order use cases
type OrderService struct {
	orderRepo        fulfillment.OrderRepository
	eventPublisher   shared.EventPublisher
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	boardStatuses    []fulfillment.OrderStatus
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo fulfillment.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
		boardStatuses:  DefaultBoardStatuses,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables replay detection for status changes
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotencyStore = store
	s.idempotencyCfg = cfg
}

// SetBoardStatuses overrides the default kanban lanes
func (s *OrderService) SetBoardStatuses(statuses []fulfillment.OrderStatus) {
	if len(statuses) > 0 {
		s.boardStatuses = statuses
	}
}

// Create registers a new order with its items
func (s *OrderService) Create(ctx context.Context, actor uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	orderCode, err := s.orderRepo.GenerateOrderCode(ctx)
	if err != nil {
		return nil, err
	}

	order, err := fulfillment.NewOrder(orderCode, req.CustomerName, req.CustomerPhone, req.Address, fulfillment.PaymentMethod(req.PaymentMethod), actor)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := order.AddItem(item.ProductID, item.ProductName, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.Note != "" {
		order.Note = req.Note
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
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

	if filter.OrderStatus != "" {
		statuses, err := parseStatusList(filter.OrderStatus)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["statuses"] = statuses
	}
	if filter.PaymentStatus != nil {
		domainFilter.Filters["payment_status"] = *filter.PaymentStatus
	}
	if filter.FromDate != nil {
		domainFilter.Filters["start_date"] = *filter.FromDate
	}
	if filter.ToDate != nil {
		domainFilter.Filters["end_date"] = *filter.ToDate
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// ChangeStatus moves an order through the fulfillment state machine. The
// order and its history entry are persisted atomically. When an idempotency
// key is supplied and was seen before, the current order state is returned
// without applying the transition again.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID, actor uuid.UUID, idempotencyKey string, req ChangeStatusRequest) (*OrderResponse, error) {
	keyed := idempotencyKey != "" && s.idempotencyStore != nil
	if keyed {
		seen, err := s.idempotencyStore.IsProcessed(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if seen {
			return s.GetByID(ctx, orderID)
		}
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()
	history, err := order.ChangeStatus(fulfillment.OrderStatus(req.Status), actor, req.Note, req.ConfirmPayment)
	if err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveStatusChange(ctx, order, history, expectedVersion); err != nil {
		return nil, err
	}

	// The key is recorded only once the transition has committed; a
	// rejected or failed attempt must leave the key usable for retries.
	if keyed {
		_, _ = s.idempotencyStore.MarkProcessed(ctx, idempotencyKey, s.idempotencyCfg.TTL)
	}

	s.publish(ctx, events)

	response := ToOrderResponse(order)
	return &response, nil
}

// parseStatusList parses a comma-joined status set, rejecting unknown values
func parseStatusList(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	statuses := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status := fulfillment.OrderStatus(part)
		if !status.IsValid() {
			return nil, shared.NewValidationError("Invalid order status: " + part)
		}
		statuses = append(statuses, part)
	}
	if len(statuses) == 0 {
		return nil, shared.NewValidationError("Order status filter cannot be empty")
	}
	return statuses, nil
}

// History returns the transition log of an order, newest first
func (s *OrderService) History(ctx context.Context, orderID uuid.UUID) ([]OrderHistoryResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	entries, err := s.orderRepo.FindHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return ToOrderHistoryResponses(entries), nil
}

// Board groups active orders into status lanes for the kanban view
func (s *OrderService) Board(ctx context.Context, filter BoardFilter) (*BoardResponse, error) {
	statuses := s.boardStatuses
	if len(filter.Statuses) > 0 {
		statuses = make([]fulfillment.OrderStatus, 0, len(filter.Statuses))
		for _, raw := range filter.Statuses {
			status := fulfillment.OrderStatus(raw)
			if !status.IsValid() {
				return nil, shared.NewValidationError("Invalid order status: " + raw)
			}
			statuses = append(statuses, status)
		}
	}

	perLane := filter.PerPage
	if perLane <= 0 {
		perLane = 20
	}

	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	columns := make([]BoardColumn, 0, len(statuses))
	for _, status := range statuses {
		laneFilter := shared.DefaultFilter()
		laneFilter.PageSize = perLane
		laneFilter.OrderBy = "updated_at"
		laneFilter.OrderDir = "desc"
		laneFilter.Filters["status"] = status.String()

		orders, err := s.orderRepo.FindAll(ctx, laneFilter)
		if err != nil {
			return nil, err
		}

		columns = append(columns, BoardColumn{
			Status: status.String(),
			Total:  counts[status],
			Orders: ToOrderResponses(orders),
		})
	}

	return &BoardResponse{Columns: columns}, nil
}

// MarkPaid settles an order payment
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *fulfillment.Order) error {
		return order.MarkPaid()
	})
}

// MarkRefunded refunds a settled payment
func (s *OrderService) MarkRefunded(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *fulfillment.Order) error {
		return order.MarkRefunded()
	})
}

// MarkPaymentFailed records a failed payment attempt
func (s *OrderService) MarkPaymentFailed(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *fulfillment.Order) error {
		return order.MarkPaymentFailed()
	})
}

func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(*fulfillment.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()
	if err := fn(order); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
