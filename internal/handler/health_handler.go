package handler

import (
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/MiNam8/PastebinClone/internal/pkg/response"
	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler exposes liveness plus a snapshot of the hash pool.
type HealthHandler struct {
	textService *service.TextService
}

func NewHealthHandler(textService *service.TextService) *HealthHandler {
	return &HealthHandler{textService: textService}
}

type HealthResponse struct {
	Status string              `json:"status"`
	Pool   *service.PoolHealth `json:"pool,omitempty"`
}

// Health handles GET /health. A degraded pool does not fail the probe; it is
// reported for operators and the out-of-band generator to act on.
func (h *HealthHandler) Health(c *gin.Context) {
	pool, err := h.textService.PoolHealth(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("pool health check failed", zap.Error(err))
		response.Success(c, HealthResponse{Status: "degraded"})
		return
	}
	response.Success(c, HealthResponse{Status: "ok", Pool: pool})
}
