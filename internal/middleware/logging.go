// Package middleware holds the HTTP middleware chain for the public API.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/karbonfx/leadform/pkg/logger"
)

// Correlation assigns each request a correlation identifier, honoring one
// supplied by the client, and echoes it in the response.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(logger.CorrelationHeader)
		if correlationID == "" {
			correlationID = logger.NewCorrelationID()
		}

		c.Header(logger.CorrelationHeader, correlationID)
		c.Request = c.Request.WithContext(logger.WithCorrelationID(c.Request.Context(), correlationID))
		c.Next()
	}
}

// Logging records one structured line per handled request.
func Logging(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info(
			"handled http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("correlation_id", logger.CorrelationIDFromContext(c.Request.Context())),
		)
	}
}
