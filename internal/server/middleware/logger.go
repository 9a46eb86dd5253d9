package middleware

import (
	"time"

	"github.com/MiNam8/PastebinClone/internal/pkg/ctxkey"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger is the access log middleware.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		path := c.Request.URL.Path

		c.Next()

		// High-frequency probe paths stay out of the access log.
		if path == "/health" {
			return
		}

		latency := time.Since(startTime)
		fields := []zap.Field{
			zap.String("component", "http.access"),
			zap.Int("status_code", c.Writer.Status()),
			zap.Int64("latency_ms", latency.Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		}
		if cache := c.Writer.Header().Get("X-Cache"); cache != "" {
			fields = append(fields, zap.String("cache", cache))
		}
		if hash, ok := c.Request.Context().Value(ctxkey.TextHash).(string); ok {
			fields = append(fields, zap.String("text_hash", hash))
		}

		logger.FromContext(c.Request.Context()).Info("http request completed", fields...)
	}
}
