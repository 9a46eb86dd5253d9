package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Bootstrap logging so config/startup failures are visible; reconfigured
	// from file once the config is loaded.
	if err := logger.Init(logger.InitOptions{}); err != nil {
		panic(err)
	}

	app, err := initializeApplication()
	if err != nil {
		logger.L().Fatal("application init failed", zap.Error(err))
	}
	defer app.Cleanup()

	if err := logger.Init(logger.OptionsFromConfig(app.Config.Log)); err != nil {
		logger.L().Fatal("logger init failed", zap.Error(err))
	}

	if err := app.Maintenance.Start(); err != nil {
		logger.L().Fatal("maintenance jobs failed to start", zap.Error(err))
	}

	go func() {
		logger.L().Info("http server listening", zap.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Server.Shutdown(ctx); err != nil {
		logger.L().Warn("http server shutdown failed", zap.Error(err))
	}
}
