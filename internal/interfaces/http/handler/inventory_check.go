package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/retail/backoffice/internal/application/inventory"
)

// InventoryCheckHandler exposes the inventory check endpoints
type InventoryCheckHandler struct {
	BaseHandler
	service *appinventory.InventoryCheckService
}

// NewInventoryCheckHandler creates a new inventory check handler
func NewInventoryCheckHandler(service *appinventory.InventoryCheckService) *InventoryCheckHandler {
	return &InventoryCheckHandler{service: service}
}

// RegisterRoutes registers inventory check routes on the given group
func (h *InventoryCheckHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checks := rg.Group("/inventory-checks")
	{
		checks.POST("", h.Create)
		checks.GET("", h.List)
		checks.GET("/:id", h.GetByID)
		checks.POST("/:id/items", h.AddItem)
		checks.DELETE("/:id/items/:product_id", h.RemoveItem)
		checks.PUT("/:id/items/:product_id/actual", h.SetActualQuantity)
		checks.GET("/:id/summary", h.Summary)
		checks.POST("/:id/complete", h.Complete)
	}
}

// Create handles POST /inventory-checks
func (h *InventoryCheckHandler) Create(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}

	var req appinventory.CreateInventoryCheckRequest
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

// List handles GET /inventory-checks
func (h *InventoryCheckHandler) List(c *gin.Context) {
	var filter appinventory.InventoryCheckListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	checks, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Paginated(c, checks, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /inventory-checks/:id
func (h *InventoryCheckHandler) GetByID(c *gin.Context) {
	checkID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), checkID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem handles POST /inventory-checks/:id/items
func (h *InventoryCheckHandler) AddItem(c *gin.Context) {
	checkID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req appinventory.AddInventoryCheckItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.service.AddItem(c.Request.Context(), checkID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /inventory-checks/:id/items/:product_id
func (h *InventoryCheckHandler) RemoveItem(c *gin.Context) {
	checkID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}

	resp, err := h.service.RemoveItem(c.Request.Context(), checkID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetActualQuantity handles PUT /inventory-checks/:id/items/:product_id/actual
func (h *InventoryCheckHandler) SetActualQuantity(c *gin.Context) {
	checkID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}

	var req appinventory.SetActualQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.service.SetActualQuantity(c.Request.Context(), checkID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Summary handles GET /inventory-checks/:id/summary
func (h *InventoryCheckHandler) Summary(c *gin.Context) {
	checkID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), checkID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete handles POST /inventory-checks/:id/complete
func (h *InventoryCheckHandler) Complete(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}
	checkID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), checkID, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
