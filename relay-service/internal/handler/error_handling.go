package handler

import (
	"errors"
	"net/http"

	"github.com/Buchara777/AI-Adventure/shared/middleware"
	"github.com/Buchara777/AI-Adventure/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeNotFound         = "not_found"
)

// handleServiceError maps an error from the relay onto a status code and a
// safe {code, message} body. Causes and raw model output are only logged.
func (h *RelayHandler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var turnErr *models.TurnError
	errors.As(err, &turnErr)

	switch {
	case errors.Is(err, models.ErrInput):
		statusCode = http.StatusBadRequest
	case errors.Is(err, models.ErrUpstream):
		statusCode = http.StatusBadGateway
		if turnErr != nil && turnErr.Timeout() {
			statusCode = http.StatusGatewayTimeout
		}
	case errors.Is(err, models.ErrParse), errors.Is(err, models.ErrSchema):
		statusCode = http.StatusBadGateway
	default:
		statusCode = http.StatusInternalServerError
	}

	errResp := models.ErrorResponse{Code: string(models.KindInternal), Message: "An unexpected internal error occurred"}
	if turnErr != nil && statusCode != http.StatusInternalServerError {
		errResp = models.ErrorResponse{Code: string(turnErr.Kind), Message: turnErr.Message}
	}

	fields := []zap.Field{
		zap.String("request_id", middleware.RequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", statusCode),
		zap.String("code", errResp.Code),
		zap.Error(err),
	}
	if statusCode >= http.StatusInternalServerError {
		h.logger.Error("Relay request failed", fields...)
	} else {
		h.logger.Warn("Relay request rejected", fields...)
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
