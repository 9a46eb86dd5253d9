package handler

import (
	"context"
	"errors"
	"time"

	"github.com/MiNam8/PastebinClone/internal/model"
	"github.com/MiNam8/PastebinClone/internal/pkg/ctxkey"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/MiNam8/PastebinClone/internal/pkg/response"
	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TextHandler handles paste creation and retrieval.
type TextHandler struct {
	textService *service.TextService
}

func NewTextHandler(textService *service.TextService) *TextHandler {
	return &TextHandler{textService: textService}
}

// CreateTextRequest is the creation payload. ExpirationDate is optional; a
// paste without one never expires.
type CreateTextRequest struct {
	Content        string     `json:"content" binding:"required"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

type TextResponse struct {
	ID             string     `json:"id"`
	Hash           string     `json:"hash"`
	Location       string     `json:"location"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type TextWithContentResponse struct {
	Metadata  TextResponse `json:"metadata"`
	Content   string       `json:"content"`
	FromCache bool         `json:"from_cache"`
}

func toTextResponse(record *model.TextRecord) TextResponse {
	return TextResponse{
		ID:             record.ID,
		Hash:           record.HashValue,
		Location:       record.Location,
		ExpirationDate: record.ExpirationDate,
		CreatedAt:      record.CreatedAt,
	}
}

// CreateText handles POST /api/v1/texts.
func (h *TextHandler) CreateText(c *gin.Context) {
	var req CreateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content is required")
		return
	}
	if req.ExpirationDate != nil && !req.ExpirationDate.After(time.Now()) {
		response.BadRequest(c, "expiration_date must be in the future")
		return
	}

	record, err := h.textService.CreateText(c.Request.Context(), req.Content, req.ExpirationDate)
	if err != nil {
		log := logger.FromContext(c.Request.Context())
		switch {
		case errors.Is(err, service.ErrReservationExhausted):
			log.Warn("text creation failed: hash pool exhausted", zap.Error(err))
			response.ServiceUnavailable(c, "no hash available, try again shortly")
		default:
			log.Error("text creation failed", zap.Error(err))
			response.InternalError(c, "failed to create text")
		}
		return
	}

	response.Created(c, toTextResponse(record))
}

// GetText handles GET /api/v1/texts/:hash.
func (h *TextHandler) GetText(c *gin.Context) {
	hash := c.Param("hash")
	if hash == "" {
		response.BadRequest(c, "hash is required")
		return
	}
	// Attach the hash so the access log can correlate reads with a paste.
	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ctxkey.TextHash, hash))

	result, err := h.textService.GetText(c.Request.Context(), hash)
	if err != nil {
		if errors.Is(err, service.ErrTextNotFound) {
			response.NotFound(c, "text not found")
			return
		}
		logger.FromContext(c.Request.Context()).Error("text read failed",
			zap.String("hash", hash),
			zap.Error(err))
		response.InternalError(c, "failed to load text")
		return
	}

	if result.FromCache {
		c.Header("X-Cache", "HIT")
		c.Header("Cache-Control", "public, max-age=3600")
	} else {
		c.Header("X-Cache", "MISS")
		c.Header("Cache-Control", "public, max-age=1800")
	}

	response.Success(c, TextWithContentResponse{
		Metadata:  toTextResponse(result.Metadata),
		Content:   result.Content,
		FromCache: result.FromCache,
	})
}
