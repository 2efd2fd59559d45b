package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// SystemHandler exposes operational endpoints
type SystemHandler struct {
	db      *gorm.DB
	name    string
	version string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *gorm.DB, name, version string) *SystemHandler {
	return &SystemHandler{db: db, name: name, version: version}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health handles GET /health. It reports degraded with 503 when the
// database does not answer a ping within two seconds.
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK
	dbStatus := "ok"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			status = "degraded"
			dbStatus = "unreachable"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	c.JSON(httpStatus, dto.NewSuccessResponse(gin.H{
		"status":   status,
		"app":      h.name,
		"version":  h.version,
		"database": dbStatus,
	}))
}
