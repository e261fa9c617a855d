package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openelect/ballot-pipeline/internal/api/shared/errors"
	"github.com/openelect/ballot-pipeline/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errors.NewNotFoundError(message, details...))
}

// respondForbidden responds with a forbidden error
func respondForbidden(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusForbidden, errors.NewForbiddenError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, errors.NewValidationError(message))
}

// respondFieldValidationError responds with per-field validation messages
func respondFieldValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, errors.NewFieldValidationError(fields))
}

// respondTooManyRequests responds with a rate-limited error carrying the
// retry-after hint both in the body and the standard header
func respondTooManyRequests(c *gin.Context, retryAfterSeconds int64) {
	c.Header("Retry-After", formatSeconds(retryAfterSeconds))
	c.JSON(http.StatusTooManyRequests, errors.NewRateLimitedError(retryAfterSeconds))
}

// respondInternalError responds with an internal server error and logs it
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	c.JSON(http.StatusInternalServerError, errors.NewInternalError(message))
}
