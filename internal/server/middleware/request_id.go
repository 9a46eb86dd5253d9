package middleware

import (
	"context"
	"strings"

	"github.com/MiNam8/PastebinClone/internal/pkg/ctxkey"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestID ensures every request carries a request id in its context and
// response headers, and binds a request-scoped logger with that id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}

		ctx := context.WithValue(c.Request.Context(), ctxkey.RequestID, id)
		requestLogger := logger.FromContext(ctx).With(zap.String("request_id", id))
		ctx = logger.IntoContext(ctx, requestLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Header(requestIDHeader, id)
		c.Next()
	}
}
