package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ovolkov/spimexpulse/internal/domain/dto"
	"github.com/ovolkov/spimexpulse/internal/logger"
)

// ErrorHandler converts errors attached to the gin context by downstream
// handlers into a standardized JSON response, when no response body has
// been written yet.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled request error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal error", err))
}

// AbortWithError logs the error and aborts the request with a standardized
// payload and the given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	logger.L().Error().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg(message)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
