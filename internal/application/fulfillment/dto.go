package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/fulfillment"
)

// CreateOrderRequest represents a request to create a fulfillment order
type CreateOrderRequest struct {
	CustomerName  string                 `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerPhone string                 `json:"customer_phone" binding:"max=50"`
	Address       string                 `json:"address" binding:"max=500"`
	PaymentMethod string                 `json:"payment_method" binding:"required,oneof=cod bank_transfer card"`
	Items         []CreateOrderItemInput `json:"items" binding:"required,min=1"`
	Note          string                 `json:"note"`
}

// CreateOrderItemInput represents an item in the create request
type CreateOrderItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// ChangeStatusRequest represents a request to move an order to a new status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
	// ConfirmPayment acknowledges cash collection when delivering COD orders
	ConfirmPayment bool `json:"confirm_payment"`
}

// OrderListFilter represents filter options for the order list.
// OrderStatus accepts a comma-joined set of statuses; FromDate and ToDate
// bound the creation timestamp.
type OrderListFilter struct {
	Search        string     `form:"search"`
	OrderStatus   string     `form:"order_status"`
	PaymentStatus *string    `form:"payment_status"`
	FromDate      *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate        *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	PageSize      int        `form:"per_page"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BoardFilter represents filter options for the kanban board
type BoardFilter struct {
	Statuses []string `form:"statuses"`
	PerPage  int      `form:"per_page"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents a fulfillment order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderCode     string              `json:"order_code"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	Address       string              `json:"address,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method"`
	Note          string              `json:"note,omitempty"`
	ConfirmedAt   *time.Time          `json:"confirmed_at,omitempty"`
	PackedAt      *time.Time          `json:"packed_at,omitempty"`
	ShippedAt     *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
	CreatedBy     *uuid.UUID          `json:"created_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderHistoryResponse represents one status transition in API responses
type OrderHistoryResponse struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      uuid.UUID `json:"actor"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BoardColumn is one status lane on the kanban board
type BoardColumn struct {
	Status string          `json:"status"`
	Total  int64           `json:"total"`
	Orders []OrderResponse `json:"orders"`
}

// BoardResponse is the kanban board payload
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

// ToOrderResponse converts a domain order to its response shape
func ToOrderResponse(order *fulfillment.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}

	return OrderResponse{
		ID:            order.ID,
		OrderCode:     order.OrderCode,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Address:       order.Address,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status.String(),
		PaymentStatus: order.PaymentStatus.String(),
		PaymentMethod: order.PaymentMethod.String(),
		Note:          order.Note,
		ConfirmedAt:   order.ConfirmedAt,
		PackedAt:      order.PackedAt,
		ShippedAt:     order.ShippedAt,
		DeliveredAt:   order.DeliveredAt,
		CancelledAt:   order.CancelledAt,
		CreatedBy:     order.CreatedBy,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []fulfillment.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// ToOrderHistoryResponses converts history entries newest first
func ToOrderHistoryResponses(entries []fulfillment.OrderHistory) []OrderHistoryResponse {
	responses := make([]OrderHistoryResponse, len(entries))
	for i, e := range entries {
		responses[i] = OrderHistoryResponse{
			ID:         e.ID,
			OrderID:    e.OrderID,
			FromStatus: e.FromStatus.String(),
			ToStatus:   e.ToStatus.String(),
			Actor:      e.Actor,
			Note:       e.Note,
			CreatedAt:  e.CreatedAt,
		}
	}
	return responses
}
