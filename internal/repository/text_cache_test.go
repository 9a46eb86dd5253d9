//go:build unit

package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheKeyBuilders(t *testing.T) {
	require.Equal(t, "text_meta:aB3xK9", textMetaKey("aB3xK9"))
	require.Equal(t, "text_content:aB3xK9", textContentKey("aB3xK9"))

	// Metadata and content for the same hash must never collide.
	require.NotEqual(t, textMetaKey("x"), textContentKey("x"))
}
