package service

import (
	"context"
	"time"

	"github.com/MiNam8/PastebinClone/internal/model"
)

// ReservationStatus is the outcome of one atomic reserve-or-request step
// against the shared hash pool. Values match the statuses produced by the
// pool's server-side script.
type ReservationStatus string

const (
	ReservationSuccess                ReservationStatus = "success"
	ReservationGenerationRequested    ReservationStatus = "generation_requested"
	ReservationGenerationInProgress   ReservationStatus = "generation_in_progress"
	ReservationTemporarilyUnavailable ReservationStatus = "temporarily_unavailable"
)

// ReservationResult carries the decoded outcome of a reservation attempt.
// Token is set only for ReservationSuccess, MessageID only for
// ReservationGenerationRequested.
type ReservationResult struct {
	Status      ReservationStatus
	Token       string
	MessageID   string
	QueueLength int64
}

// PoolHealth is a point-in-time snapshot of the hash pool, including whether
// a stuck generation lock was reclaimed during the check.
type PoolHealth struct {
	QueueLength   int64         `json:"queue_length"`
	LockHeld      bool          `json:"lock_held"`
	LockTTL       time.Duration `json:"lock_ttl"`
	LockReclaimed bool          `json:"lock_reclaimed"`
}

// HashPool is the shared reservation queue of pre-generated hash tokens.
//
// ReserveOrRequest must be atomic with respect to every other caller across
// all replicas: pop a token, or decide (under the queue-length threshold) to
// acquire the generation lock and append a generation request, or report that
// generation is already in flight.
type HashPool interface {
	ReserveOrRequest(ctx context.Context) (*ReservationResult, error)
	// ReturnToken pushes an unused token back. Compensation only: called when
	// a reservation succeeded but a later creation step failed.
	ReturnToken(ctx context.Context, token string) error
	// HealthCheck reports pool state and force-clears a generation lock whose
	// remaining TTL is below the configured safety margin.
	HealthCheck(ctx context.Context) (*PoolHealth, error)
}

// CachedText pairs a record with its content. The cache tier guarantees the
// two are written and expired together.
type CachedText struct {
	Metadata *model.TextRecord
	Content  string
}

// TextCache is the cache-aside store for (metadata, content) pairs.
type TextCache interface {
	// GetComplete atomically reads both halves and, on a hit, bumps the
	// popularity counter for the current bucket. A miss is (nil, nil).
	GetComplete(ctx context.Context, hash string) (*CachedText, error)
	// PutComplete writes both halves in one atomic step with the same TTL.
	PutComplete(ctx context.Context, hash string, meta *model.TextRecord, content string, ttl time.Duration) error
	// IsPopular reports whether the current bucket's score reached threshold.
	// Any cache-tier failure reads as false, never as an error.
	IsPopular(ctx context.Context, hash string, threshold int) bool
}

// TextRepository is the transactional source of truth for text records.
type TextRepository interface {
	Create(ctx context.Context, record *model.TextRecord) error
	GetByHash(ctx context.Context, hash string) (*model.TextRecord, error)
	// GetActiveByHash returns only records that have not expired yet.
	GetActiveByHash(ctx context.Context, hash string) (*model.TextRecord, error)
	// DeleteExpired purges records past their expiration, returning how many
	// rows were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// BlobStore stores raw text content under opaque locations.
type BlobStore interface {
	Upload(ctx context.Context, content string) (location string, err error)
	Get(ctx context.Context, location string) (string, error)
	Delete(ctx context.Context, location string) error
}
