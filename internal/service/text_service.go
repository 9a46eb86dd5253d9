package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/model"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// backoffSleep is replaced in tests to avoid real waiting.
var backoffSleep = sleepContext

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TextResult is a fully resolved read: the record, its content, and whether
// the cache tier answered.
type TextResult struct {
	Metadata  *model.TextRecord
	Content   string
	FromCache bool
}

// TextService orchestrates text creation (blob upload, hash reservation,
// transactional persistence, with compensations) and the cache-aside read
// path.
type TextService struct {
	cfg   *config.Config
	repo  TextRepository
	cache TextCache
	pool  HashPool
	blobs BlobStore

	// fetchMu collapses concurrent cache-miss fetches within this process.
	// Replicas in other processes may still fetch in parallel; the fetch path
	// is read-only and idempotent, so that only costs efficiency.
	fetchMu sync.Mutex
}

func NewTextService(cfg *config.Config, repo TextRepository, cache TextCache, pool HashPool, blobs BlobStore) *TextService {
	return &TextService{
		cfg:   cfg,
		repo:  repo,
		cache: cache,
		pool:  pool,
		blobs: blobs,
	}
}

// CreateText stores content and binds it to a freshly reserved hash token.
// Either the returned record is fully committed, or every completed step has
// been compensated: an aborted creation leaves no orphaned blob and no lost
// token.
func (s *TextService) CreateText(ctx context.Context, content string, expiration *time.Time) (*model.TextRecord, error) {
	var (
		location string
		token    string
		record   *model.TextRecord
	)

	creation := &saga{steps: []sagaStep{
		{
			name: "upload_blob",
			run: func(ctx context.Context) error {
				loc, err := s.blobs.Upload(ctx, content)
				if err != nil {
					return fmt.Errorf("upload blob: %w", err)
				}
				location = loc
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.blobs.Delete(ctx, location)
			},
		},
		{
			name: "reserve_hash",
			run: func(ctx context.Context) error {
				reserved, err := s.reserveWithRetry(ctx)
				if err != nil {
					return err
				}
				token = reserved
				return nil
			},
			compensate: func(ctx context.Context) error {
				// Compensations run on a fresh context: the token must make it
				// back into the pool even when the request context is gone.
				return s.pool.ReturnToken(context.WithoutCancel(ctx), token)
			},
		},
		{
			name: "persist_record",
			run: func(ctx context.Context) error {
				now := time.Now().UTC()
				record = &model.TextRecord{
					ID:             uuid.New().String(),
					Location:       location,
					HashValue:      token,
					ExpirationDate: expiration,
					CreatedAt:      now,
					UpdatedAt:      now,
				}
				if err := s.repo.Create(ctx, record); err != nil {
					return fmt.Errorf("persist text record: %w", err)
				}
				return nil
			},
		},
	}}

	if err := creation.run(ctx); err != nil {
		if token != "" && !errors.Is(err, ErrReservationExhausted) {
			return nil, fmt.Errorf("%w: %v", ErrPartialCreationFailure, err)
		}
		return nil, err
	}
	return record, nil
}

// reserveWithRetry drives the reservation loop: each attempt is one atomic
// reserve-or-request call, and non-success outcomes wait out the backoff
// schedule for their situation before trying again.
func (s *TextService) reserveWithRetry(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx)
	maxRetries := s.cfg.HashPool.MaxRetries

	var lastStatus ReservationStatus
	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err := s.pool.ReserveOrRequest(ctx)

		var situation BackoffSituation
		switch {
		case err != nil:
			lastStatus = ""
			situation = BackoffError
			log.Warn("hash reservation attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
		case result.Status == ReservationSuccess:
			return result.Token, nil
		default:
			lastStatus = result.Status
			mapped, known := backoffSituationFor(result.Status)
			if !known {
				return "", fmt.Errorf("%w: %q", ErrUnknownReservationOutcome, result.Status)
			}
			situation = mapped
			log.Info("hash pool not ready",
				zap.String("status", string(result.Status)),
				zap.Int64("queue_length", result.QueueLength),
				zap.Int("attempt", attempt))
		}

		if attempt < maxRetries-1 {
			if err := backoffSleep(ctx, BackoffDelay(situation, attempt)); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("%w after %d attempts (last status %q)",
		ErrReservationExhausted, maxRetries, lastStatus)
}

// GetText implements the cache-aside read path: cache check, then a
// process-local lock with a recheck, then fetch from the source of truth and
// populate the cache with a popularity-driven TTL.
func (s *TextService) GetText(ctx context.Context, hash string) (*TextResult, error) {
	if cached := s.cacheLookup(ctx, hash); cached != nil {
		return &TextResult{Metadata: cached.Metadata, Content: cached.Content, FromCache: true}, nil
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	// A concurrent request in this process may have populated the cache while
	// we waited for the lock.
	if cached := s.cacheLookup(ctx, hash); cached != nil {
		return &TextResult{Metadata: cached.Metadata, Content: cached.Content, FromCache: true}, nil
	}

	record, err := s.repo.GetActiveByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("load text record: %w", err)
	}
	if record == nil {
		return nil, ErrTextNotFound
	}

	content, err := s.blobs.Get(ctx, record.Location)
	if err != nil {
		return nil, fmt.Errorf("load text content: %w", err)
	}

	ttl := s.dynamicTTL(ctx, hash)
	if err := s.cache.PutComplete(ctx, hash, record, content, ttl); err != nil {
		// A cache-tier outage degrades TTL behaviour, never the read itself.
		logger.FromContext(ctx).Warn("cache population failed",
			zap.String("hash", hash),
			zap.Error(err))
	}

	return &TextResult{Metadata: record, Content: content, FromCache: false}, nil
}

// cacheLookup absorbs cache-tier failures into a miss.
func (s *TextService) cacheLookup(ctx context.Context, hash string) *CachedText {
	cached, err := s.cache.GetComplete(ctx, hash)
	if err != nil {
		logger.FromContext(ctx).Warn("cache read failed, treating as miss",
			zap.String("hash", hash),
			zap.Error(err))
		return nil
	}
	return cached
}

// dynamicTTL picks the cache lifetime for a population event. Evaluated once
// per population; already-cached entries keep their TTL until repopulated.
func (s *TextService) dynamicTTL(ctx context.Context, hash string) time.Duration {
	if s.cache.IsPopular(ctx, hash, s.cfg.Cache.PopularThreshold) {
		return s.cfg.Cache.PopularTTL()
	}
	return s.cfg.Cache.DefaultTTL()
}

// PoolHealth exposes the hash pool health check for the health endpoint and
// the maintenance job.
func (s *TextService) PoolHealth(ctx context.Context) (*PoolHealth, error) {
	return s.pool.HealthCheck(ctx)
}
