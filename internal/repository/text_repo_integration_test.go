//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/MiNam8/PastebinClone/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func storedRecord(hash string, expiration *time.Time) *model.TextRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.TextRecord{
		ID:             uuid.New().String(),
		Location:       "s3://texts/" + hash + ".txt",
		HashValue:      hash,
		ExpirationDate: expiration,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestTextRepositoryCreateAndGet(t *testing.T) {
	repo := NewTextRepository(testDB(t))
	ctx := context.Background()

	record := storedRecord("aB3xK9", nil)
	require.NoError(t, repo.Create(ctx, record))

	got, err := repo.GetByHash(ctx, "aB3xK9")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, record.ID, got.ID)
	require.Equal(t, record.Location, got.Location)
	require.Nil(t, got.ExpirationDate)

	missing, err := repo.GetByHash(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestTextRepositoryRejectsDuplicateHash(t *testing.T) {
	repo := NewTextRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, storedRecord("aB3xK9", nil)))
	require.Error(t, repo.Create(ctx, storedRecord("aB3xK9", nil)))
}

func TestTextRepositoryActiveFilterSkipsExpired(t *testing.T) {
	repo := NewTextRepository(testDB(t))
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, storedRecord("expired", &past)))
	require.NoError(t, repo.Create(ctx, storedRecord("alive", &future)))
	require.NoError(t, repo.Create(ctx, storedRecord("eternal", nil)))

	got, err := repo.GetActiveByHash(ctx, "expired")
	require.NoError(t, err)
	require.Nil(t, got)

	// The raw lookup still sees it until the cleanup job runs.
	raw, err := repo.GetByHash(ctx, "expired")
	require.NoError(t, err)
	require.NotNil(t, raw)

	for _, hash := range []string{"alive", "eternal"} {
		got, err := repo.GetActiveByHash(ctx, hash)
		require.NoError(t, err)
		require.NotNil(t, got, "hash %q", hash)
	}
}

func TestTextRepositoryDeleteExpiredPurgesOnlyPast(t *testing.T) {
	repo := NewTextRepository(testDB(t))
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, storedRecord("expired-1", &past)))
	require.NoError(t, repo.Create(ctx, storedRecord("expired-2", &past)))
	require.NoError(t, repo.Create(ctx, storedRecord("alive", &future)))
	require.NoError(t, repo.Create(ctx, storedRecord("eternal", nil)))

	removed, err := repo.DeleteExpired(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)

	for _, hash := range []string{"expired-1", "expired-2"} {
		got, err := repo.GetByHash(ctx, hash)
		require.NoError(t, err)
		require.Nil(t, got, "hash %q", hash)
	}
	for _, hash := range []string{"alive", "eternal"} {
		got, err := repo.GetByHash(ctx, hash)
		require.NoError(t, err)
		require.NotNil(t, got, "hash %q", hash)
	}
}
