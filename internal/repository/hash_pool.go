package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	hashQueueKey          = "text_hash_queue"
	hashGenerationLockKey = "hash_generation_lock"
	hashRequestStreamKey  = "hash_generation_requests"

	ttlKeyMissing = time.Duration(-2)
	ttlNoExpiry   = time.Duration(-1)
)

// reserveOrRequestScript is the atomic heart of the hash pool. The whole
// decision runs server-side so no other client can observe an intermediate
// state: pop a token; otherwise, below the threshold, acquire the generation
// lock (set-if-absent with TTL) and append a generation request; otherwise
// report who got there first. The lock is NOT released here on success — the
// generator clears it once it has refilled the queue.
var reserveOrRequestScript = redis.NewScript(`
local queue_key = KEYS[1]
local lock_key = KEYS[2]
local stream_key = KEYS[3]
local threshold = tonumber(ARGV[1])
local lock_ttl = tonumber(ARGV[2])
local batch_size = ARGV[3]
local service_id = ARGV[4]
local request_id = ARGV[5]

local token = redis.call('LPOP', queue_key)
local queue_length = redis.call('LLEN', queue_key)

if token then
    return {'status', 'success', 'token', token, 'queue_length', queue_length}
end

if queue_length < threshold then
    local acquired = redis.call('SET', lock_key, service_id, 'NX', 'EX', lock_ttl)
    if acquired then
        local message_id = redis.call('XADD', stream_key, '*',
            'batch_size', batch_size,
            'requesting_service', service_id,
            'timestamp', redis.call('TIME')[1],
            'request_id', request_id,
            'lock_key', lock_key,
            'queue_length', queue_length)
        return {'status', 'generation_requested', 'message_id', message_id, 'queue_length', queue_length}
    end
    return {'status', 'generation_in_progress', 'queue_length', queue_length}
end

return {'status', 'temporarily_unavailable', 'queue_length', queue_length}
`)

type hashPool struct {
	rdb       *redis.Client
	cfg       config.HashPoolConfig
	serviceID string
}

func NewHashPool(rdb *redis.Client, cfg *config.Config) service.HashPool {
	return &hashPool{
		rdb:       rdb,
		cfg:       cfg.HashPool,
		serviceID: cfg.Server.ServiceID,
	}
}

func (p *hashPool) ReserveOrRequest(ctx context.Context) (*service.ReservationResult, error) {
	raw, err := reserveOrRequestScript.Run(ctx, p.rdb,
		[]string{hashQueueKey, hashGenerationLockKey, hashRequestStreamKey},
		p.cfg.Threshold,
		p.cfg.LockTTLSeconds,
		strconv.Itoa(p.cfg.BatchSize),
		p.serviceID,
		uuid.New().String(),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve-or-request script: %w", err)
	}

	result, err := parseReservationReply(raw)
	if err != nil {
		return nil, err
	}

	if result.Status == service.ReservationGenerationRequested {
		logger.FromContext(ctx).Info("hash generation requested",
			zap.String("message_id", result.MessageID),
			zap.Int64("queue_length", result.QueueLength),
			zap.String("requester", p.serviceID))
	}
	return result, nil
}

// parseReservationReply decodes the script's flat field/value array.
func parseReservationReply(raw any) (*service.ReservationResult, error) {
	fields, ok := raw.([]any)
	if !ok || len(fields)%2 != 0 {
		return nil, fmt.Errorf("unexpected reservation reply shape: %T", raw)
	}

	result := &service.ReservationResult{}
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			return nil, fmt.Errorf("unexpected reservation reply key: %T", fields[i])
		}
		value := fields[i+1]
		switch key {
		case "status":
			s, _ := value.(string)
			result.Status = service.ReservationStatus(s)
		case "token":
			result.Token, _ = value.(string)
		case "message_id":
			result.MessageID, _ = value.(string)
		case "queue_length":
			switch n := value.(type) {
			case int64:
				result.QueueLength = n
			case string:
				parsed, err := strconv.ParseInt(n, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("parse queue_length %q: %w", n, err)
				}
				result.QueueLength = parsed
			}
		}
	}
	if result.Status == "" {
		return nil, fmt.Errorf("reservation reply missing status")
	}
	return result, nil
}

// ReturnToken pushes an unissued token back onto the queue. Tokens are
// interchangeable, so the position does not matter.
func (p *hashPool) ReturnToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := p.rdb.LPush(ctx, hashQueueKey, token).Err(); err != nil {
		return fmt.Errorf("return token to pool: %w", err)
	}
	logger.FromContext(ctx).Info("returned unused hash token to pool",
		zap.String("token", token))
	return nil
}

// HealthCheck snapshots pool state. A generation lock whose remaining TTL has
// fallen below the safety margin is treated as abandoned by a crashed
// generator and force-cleared so replenishment can restart.
func (p *hashPool) HealthCheck(ctx context.Context) (*service.PoolHealth, error) {
	length, err := p.rdb.LLen(ctx, hashQueueKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hash queue length: %w", err)
	}

	health := &service.PoolHealth{QueueLength: length}

	ttl, err := p.rdb.TTL(ctx, hashGenerationLockKey).Result()
	if err != nil {
		return nil, fmt.Errorf("generation lock ttl: %w", err)
	}

	// go-redis maps the TTL reply to a duration: -2 means the key is gone,
	// -1 means it exists without an expiry.
	switch {
	case ttl == ttlKeyMissing:
		return health, nil
	case ttl == ttlNoExpiry:
		// A lock without expiry should not exist; reclaim it outright.
		health.LockHeld = true
		if err := p.rdb.Del(ctx, hashGenerationLockKey).Err(); err != nil {
			return nil, fmt.Errorf("reclaim unexpiring generation lock: %w", err)
		}
		health.LockReclaimed = true
	default:
		health.LockHeld = true
		health.LockTTL = ttl
		if ttl < time.Duration(p.cfg.StuckLockSeconds)*time.Second {
			if err := p.rdb.Del(ctx, hashGenerationLockKey).Err(); err != nil {
				return nil, fmt.Errorf("reclaim stuck generation lock: %w", err)
			}
			health.LockReclaimed = true
		}
	}
	return health, nil
}
