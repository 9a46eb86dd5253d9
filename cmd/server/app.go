package main

import (
	"database/sql"
	"net/http"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/redis/go-redis/v9"
)

// Application bundles everything main needs to run and shut down the service.
type Application struct {
	Config      *config.Config
	Server      *http.Server
	Maintenance *service.MaintenanceService
	Cleanup     func()
}

func provideCleanup(sqlDB *sql.DB, rdb *redis.Client, maintenance *service.MaintenanceService) func() {
	return func() {
		// Reverse dependency order.
		maintenance.Stop()
		if err := rdb.Close(); err != nil {
			logger.S().Warnf("redis close failed: %v", err)
		}
		if err := sqlDB.Close(); err != nil {
			logger.S().Warnf("postgres close failed: %v", err)
		}
		logger.Sync()
	}
}
