//go:build unit

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTextRecordExpired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	require.False(t, (&TextRecord{}).Expired(now))
	require.False(t, (&TextRecord{ExpirationDate: &future}).Expired(now))
	require.True(t, (&TextRecord{ExpirationDate: &past}).Expired(now))
	// A record expiring exactly now is already expired.
	require.True(t, (&TextRecord{ExpirationDate: &now}).Expired(now))
}
