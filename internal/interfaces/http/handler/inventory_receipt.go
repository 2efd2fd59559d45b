package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appprocurement "github.com/retail/backoffice/internal/application/procurement"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// InventoryReceiptHandler exposes the inventory receipt endpoints
type InventoryReceiptHandler struct {
	BaseHandler
	service *appprocurement.InventoryReceiptService
	// defaultExpiryDays is the horizon used when the expiring report is
	// requested without an explicit days parameter
	defaultExpiryDays int
}

// NewInventoryReceiptHandler creates a new inventory receipt handler
func NewInventoryReceiptHandler(service *appprocurement.InventoryReceiptService, defaultExpiryDays int) *InventoryReceiptHandler {
	if defaultExpiryDays <= 0 {
		defaultExpiryDays = 30
	}
	return &InventoryReceiptHandler{service: service, defaultExpiryDays: defaultExpiryDays}
}

// RegisterRoutes registers inventory receipt routes on the given group
func (h *InventoryReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.Create)
		receipts.GET("", h.List)
		receipts.GET("/expiring", h.Expiring)
		receipts.GET("/:id", h.GetByID)
		receipts.POST("/:id/lines", h.AddLine)
		receipts.PUT("/:id/lines/:variant_id", h.UpdateLine)
		receipts.DELETE("/:id/lines/:variant_id", h.RemoveLine)
		receipts.POST("/:id/post", h.Post)
		receipts.POST("/:id/cancel", h.Cancel)
	}
}

// Create handles POST /receipts
func (h *InventoryReceiptHandler) Create(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}

	var req appprocurement.CreateInventoryReceiptRequest
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

// List handles GET /receipts
func (h *InventoryReceiptHandler) List(c *gin.Context) {
	var filter appprocurement.InventoryReceiptListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	receipts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, receipts, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /receipts/:id
func (h *InventoryReceiptHandler) GetByID(c *gin.Context) {
	receiptID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine handles POST /receipts/:id/lines
func (h *InventoryReceiptHandler) AddLine(c *gin.Context) {
	receiptID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req appprocurement.AddInventoryReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.service.AddLine(c.Request.Context(), receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine handles PUT /receipts/:id/lines/:variant_id
func (h *InventoryReceiptHandler) UpdateLine(c *gin.Context) {
	receiptID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}

	var req appprocurement.UpdateInventoryReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.service.UpdateLine(c.Request.Context(), receiptID, variantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine handles DELETE /receipts/:id/lines/:variant_id
func (h *InventoryReceiptHandler) RemoveLine(c *gin.Context) {
	receiptID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}

	resp, err := h.service.RemoveLine(c.Request.Context(), receiptID, variantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Post handles POST /receipts/:id/post
func (h *InventoryReceiptHandler) Post(c *gin.Context) {
	receiptID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Post(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /receipts/:id/cancel
func (h *InventoryReceiptHandler) Cancel(c *gin.Context) {
	receiptID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req appprocurement.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Expiring handles GET /receipts/expiring?days=30
func (h *InventoryReceiptHandler) Expiring(c *gin.Context) {
	days := h.defaultExpiryDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("days must be a non-negative integer"))
			return
		}
		days = parsed
	}

	report, err := h.service.ExpiringReport(c.Request.Context(), days)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, report)
}
