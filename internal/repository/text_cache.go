package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/model"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	textMetaKeyPrefix    = "text_meta:"
	textContentKeyPrefix = "text_content:"
	textPopularityKey    = "text_popularity:daily"
)

func textMetaKey(hash string) string {
	return textMetaKeyPrefix + hash
}

func textContentKey(hash string) string {
	return textContentKeyPrefix + hash
}

// getCompleteScript reads metadata and content as a unit and, only when both
// are present, credits the hit to the current popularity bucket and refreshes
// the bucket's expiry. A partial or empty read returns nothing and leaves the
// popularity counter untouched.
var getCompleteScript = redis.NewScript(`
local metadata = redis.call('GET', KEYS[1])
local content = redis.call('GET', KEYS[2])

if metadata and content then
    redis.call('ZINCRBY', KEYS[3], 1, ARGV[1])
    redis.call('EXPIRE', KEYS[3], ARGV[2])
    return {metadata, content}
end

return false
`)

type textCache struct {
	rdb *redis.Client
	cfg config.CacheConfig
}

func NewTextCache(rdb *redis.Client, cfg *config.Config) service.TextCache {
	return &textCache{rdb: rdb, cfg: cfg.Cache}
}

func (c *textCache) GetComplete(ctx context.Context, hash string) (*service.CachedText, error) {
	raw, err := getCompleteScript.Run(ctx, c.rdb,
		[]string{textMetaKey(hash), textContentKey(hash), textPopularityKey},
		hash,
		int(c.cfg.BucketWindow().Seconds()),
	).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get-complete script: %w", err)
	}

	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return nil, fmt.Errorf("unexpected cache reply shape: %T", raw)
	}
	metaJSON, _ := pair[0].(string)
	content, _ := pair[1].(string)

	var record model.TextRecord
	if err := json.Unmarshal([]byte(metaJSON), &record); err != nil {
		return nil, fmt.Errorf("decode cached metadata: %w", err)
	}
	return &service.CachedText{Metadata: &record, Content: content}, nil
}

func (c *textCache) PutComplete(ctx context.Context, hash string, meta *model.TextRecord, content string, ttl time.Duration) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	// Both halves go through one transactional pipeline with the same TTL so
	// they can never expire apart.
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, textMetaKey(hash), metaJSON, ttl)
	pipe.Set(ctx, textContentKey(hash), content, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache put-complete: %w", err)
	}
	return nil
}

func (c *textCache) IsPopular(ctx context.Context, hash string, threshold int) bool {
	score, err := c.rdb.ZScore(ctx, textPopularityKey, hash).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		// A cache-tier outage degrades TTL selection, never the read.
		logger.FromContext(ctx).Warn("popularity check failed, assuming not popular",
			zap.String("hash", hash),
			zap.Error(err))
		return false
	}
	return score >= float64(threshold)
}
