// Package server wires the HTTP surface: router, middleware, and the
// http.Server itself.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/handler"
	"github.com/MiNam8/PastebinClone/internal/server/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
)

// SetupRouter configures middleware and routes.
func SetupRouter(cfg *config.Config, handlers *handler.Handlers) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	if len(cfg.Server.TrustedProxies) > 0 {
		_ = r.SetTrustedProxies(cfg.Server.TrustedProxies)
	}

	registerRoutes(r, handlers)
	return r
}

func registerRoutes(r *gin.Engine, h *handler.Handlers) {
	r.GET("/health", h.Health.Health)

	v1 := r.Group("/api/v1")
	v1.POST("/texts", h.Text.CreateText)
	v1.GET("/texts/:hash", h.Text.GetText)
}

// NewHTTPServer builds the http.Server around the router.
func NewHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
}

// ProviderSet is the Wire provider set for the HTTP server layer.
var ProviderSet = wire.NewSet(SetupRouter, NewHTTPServer)
