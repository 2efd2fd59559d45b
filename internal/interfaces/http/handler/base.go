package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct{}

// Success sends a 200 response with the standard envelope
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response with the standard envelope
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Paginated sends a 200 response wrapping a result page
func (h *BaseHandler) Paginated(c *gin.Context, data interface{}, total int64, page, perPage int) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(data, total, page, perPage))
}

// BadRequest sends a 400 response for malformed requests
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.FormatBindingError(err)))
}

// HandleDomainError maps a service error to the HTTP response.
// Domain errors surface their message with the mapped status; anything
// else is logged and redacted to a generic 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status == http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("unexpected domain error",
				zap.String("code", domainErr.Code),
				zap.Error(err))
			c.JSON(status, dto.NewErrorResponse(dto.InternalErrorMessage))
			return
		}
		c.JSON(status, dto.NewErrorResponse(domainErr.Message))
		return
	}

	logger.L(c.Request.Context()).Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.InternalErrorMessage))
}

// actorID resolves the acting user from the auth middleware. Requests
// that reach a handler without an actor respond 401.
func (h *BaseHandler) actorID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authorization required"))
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a UUID path parameter, responding 400 on failure
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(name+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
