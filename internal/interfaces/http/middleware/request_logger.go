package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// RequestLogger logs one line per request with a generated request id. The
// id is also echoed in the X-Request-ID response header.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Info("request",
			logger.RequestID(requestID),
			logger.Method(c.Request.Method),
			logger.Path(c.Request.URL.Path),
			logger.Status(c.Writer.Status()),
			logger.Latency(time.Since(start)),
			logger.ClientIP(c.ClientIP()),
		)
	}
}
