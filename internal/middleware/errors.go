package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tickerrank/internal/domain/dto"
	"github.com/guttosm/tickerrank/internal/logger"
)

// ErrorHandler renders errors attached with c.Error once the handler chain has
// run and nothing was written yet. A dto.ErrorResponse is sent as is; any other
// error becomes a 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err

	status := c.Writer.Status()
	var resp dto.ErrorResponse
	if !errors.As(err, &resp) {
		resp = dto.NewErrorResponse("internal server error", err)
		status = http.StatusInternalServerError
	}
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	rid, _ := c.Get(RequestIDKey)
	event := logger.L().Warn()
	if status >= http.StatusInternalServerError {
		event = logger.L().Error()
	}
	event.Str("request_id", toString(rid)).Str("path", c.Request.URL.Path).Int("status", status).Err(err).Msg("request failed")

	c.JSON(status, resp)
}

// AbortWithError stops the chain and attaches a standardized error for
// ErrorHandler to render with status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.Abort()
	c.Status(status)
	_ = c.Error(dto.NewErrorResponse(message, err))
}
