package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
	"github.com/invoicebook/backend/internal/interfaces/http/dto"
	"github.com/invoicebook/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a 200 response for a complete list
func (h *BaseHandler) SuccessList(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response, deriving the status from the code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// FieldError sends a 400 validation response naming the offending field
func (h *BaseHandler) FieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, dto.NewFieldErrorResponse(field, message, middleware.GetRequestID(c)))
}

// HandleError converts an error into a response. Domain errors keep their code and message;
// anything else is an internal error. 5xx responses are logged with the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	domainErr, ok := shared.AsDomainError(err)
	if !ok {
		h.logServerError(c, dto.ErrCodeInternal, err)
		h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
		return
	}

	code := dto.NormalizeErrorCode(domainErr.Code)
	if dto.GetHTTPStatus(code) >= http.StatusInternalServerError {
		h.logServerError(c, code, err)
	}
	if domainErr.Field != "" {
		h.FieldError(c, domainErr.Field, domainErr.Message)
		return
	}
	h.Error(c, code, domainErr.Message)
}

func (h *BaseHandler) logServerError(c *gin.Context, code string, err error) {
	logger.GetGinLogger(c).Error("request failed",
		zap.String("code", code),
		zap.Error(err),
	)
}

// BindJSON decodes and validates the request body.
// It writes the error response itself and reports whether the handler may continue.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		h.FieldError(c, fieldErrs[0].Field(), middleware.ValidationMessage(fieldErrs[0]))
	case errors.As(err, &maxBytesErr):
		h.Error(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case errors.Is(err, io.EOF):
		h.Error(c, dto.ErrCodeInvalidJSON, "Request body is required")
	default:
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			h.FieldError(c, typeErr.Field, typeErr.Field+" has the wrong type")
			return false
		}
		h.Error(c, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
	}
	return false
}

// ParseUUIDParam reads a UUID path parameter, writing a 400 response when it is malformed
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.FieldError(c, name, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
