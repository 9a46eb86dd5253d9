package service

import (
	"context"
	"sync"
	"time"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaintenanceService runs the recurring background jobs: the hash pool health
// check (which reclaims stuck generation locks) and the expired-text purge.
type MaintenanceService struct {
	cfg      *config.Config
	pool     HashPool
	repo     TextRepository
	cron     *cron.Cron
	stopOnce sync.Once
}

func NewMaintenanceService(cfg *config.Config, pool HashPool, repo TextRepository) *MaintenanceService {
	return &MaintenanceService{
		cfg:  cfg,
		pool: pool,
		repo: repo,
		cron: cron.New(),
	}
}

func (s *MaintenanceService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Jobs.PoolHealthSpec, s.runPoolHealth); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.Jobs.ExpiredCleanupSpec, s.runExpiredCleanup); err != nil {
		return err
	}
	s.cron.Start()
	logger.L().Info("maintenance jobs started",
		zap.String("pool_health_spec", s.cfg.Jobs.PoolHealthSpec),
		zap.String("expired_cleanup_spec", s.cfg.Jobs.ExpiredCleanupSpec))
	return nil
}

func (s *MaintenanceService) Stop() {
	s.stopOnce.Do(func() {
		ctx := s.cron.Stop()
		<-ctx.Done()
		logger.L().Info("maintenance jobs stopped")
	})
}

func (s *MaintenanceService) runPoolHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := s.pool.HealthCheck(ctx)
	if err != nil {
		logger.L().Warn("hash pool health check failed", zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.Int64("queue_length", health.QueueLength),
		zap.Bool("lock_held", health.LockHeld),
		zap.Duration("lock_ttl", health.LockTTL),
	}
	if health.LockReclaimed {
		// Crash-recovery action, worth noticing in the logs.
		logger.L().Warn("reclaimed stuck hash generation lock", fields...)
		return
	}
	logger.L().Debug("hash pool health", fields...)
}

func (s *MaintenanceService) runExpiredCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		logger.L().Warn("expired text cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.L().Info("expired texts purged", zap.Int64("removed", removed))
	}
}
