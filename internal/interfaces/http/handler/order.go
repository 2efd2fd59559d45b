package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfulfillment "github.com/retail/backoffice/internal/application/fulfillment"
)

// OrderHandler exposes the fulfillment order endpoints
type OrderHandler struct {
	BaseHandler
	service *appfulfillment.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *appfulfillment.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/board", h.Board)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id/status", h.ChangeStatus)
		orders.GET("/:id/history", h.History)
		orders.POST("/:id/payment/paid", h.MarkPaid)
		orders.POST("/:id/payment/refunded", h.MarkRefunded)
		orders.POST("/:id/payment/failed", h.MarkPaymentFailed)
	}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}

	var req appfulfillment.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter appfulfillment.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, orders, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeStatus handles PUT /orders/:id/status.
// An Idempotency-Key header makes retried transitions replay the original
// result instead of being applied twice.
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req appfulfillment.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	resp, err := h.service.ChangeStatus(c.Request.Context(), orderID, actor, idempotencyKey, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// History handles GET /orders/:id/history
func (h *OrderHandler) History(c *gin.Context) {
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// Board handles GET /orders/board
func (h *OrderHandler) Board(c *gin.Context) {
	var filter appfulfillment.BoardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	board, err := h.service.Board(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, board)
}

// MarkPaid handles POST /orders/:id/payment/paid
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	h.payment(c, h.service.MarkPaid)
}

// MarkRefunded handles POST /orders/:id/payment/refunded
func (h *OrderHandler) MarkRefunded(c *gin.Context) {
	h.payment(c, h.service.MarkRefunded)
}

// MarkPaymentFailed handles POST /orders/:id/payment/failed
func (h *OrderHandler) MarkPaymentFailed(c *gin.Context) {
	h.payment(c, h.service.MarkPaymentFailed)
}

func (h *OrderHandler) payment(c *gin.Context, fn func(ctx context.Context, orderID uuid.UUID) (*appfulfillment.OrderResponse, error)) {
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
