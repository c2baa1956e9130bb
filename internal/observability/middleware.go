package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"
const requestIDKey = "request_id"

// RequestID assigns every admin API request a UUID, reusing one the
// caller already supplied via the X-Request-ID header so a request
// can be traced across a reverse proxy. Downstream middleware and
// handlers read it back with RequestIDFrom.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the request id RequestID assigned to c, or ""
// if RequestID was never run for this request.
func RequestIDFrom(c *gin.Context) string {
	id, _ := c.Get(requestIDKey)
	s, _ := id.(string)
	return s
}

// RequestLogger logs every admin API request at a level that scales
// with its HTTP status.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Str("request_id", RequestIDFrom(c)).
			Msg("http_request")
	}
}

// RequestMetricsMiddleware records every admin API request in the
// HTTP request-count and duration metrics.
func RequestMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
