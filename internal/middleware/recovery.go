package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tickerrank/internal/domain/dto"
	"github.com/guttosm/tickerrank/internal/logger"
	"github.com/guttosm/tickerrank/internal/telemetry"
)

// RecoveryMiddleware turns a handler panic into a 500 with a dto.ErrorResponse.
// The panic is logged with its stack and request id and counted in
// tickerrank_http_panics_total.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			telemetry.Panics.Inc()

			rid, _ := c.Get(RequestIDKey)
			logger.L().Error().
				Str("request_id", toString(rid)).
				Str("path", c.Request.URL.Path).
				Str("panic", fmt.Sprintf("%v", r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error", fmt.Errorf("%v", r)))
		}()

		c.Next()
	}
}
