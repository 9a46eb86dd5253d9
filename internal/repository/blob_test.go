//go:build unit

package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewBlobStoreDriverSelection(t *testing.T) {
	httpStore, err := NewBlobStore(&config.Config{Blob: config.BlobConfig{
		Driver:   config.BlobDriverHTTP,
		Endpoint: "http://localhost:9000",
		Bucket:   "texts",
	}})
	require.NoError(t, err)
	require.IsType(t, &httpBlobStore{}, httpStore)

	fsStore, err := NewBlobStore(&config.Config{Blob: config.BlobConfig{
		Driver:  config.BlobDriverFilesystem,
		BaseDir: t.TempDir(),
	}})
	require.NoError(t, err)
	require.IsType(t, &fsBlobStore{}, fsStore)

	_, err = NewBlobStore(&config.Config{Blob: config.BlobConfig{Driver: "carrier-pigeon"}})
	require.Error(t, err)
}

func TestHTTPBlobStoreParseLocation(t *testing.T) {
	store := &httpBlobStore{bucket: "texts"}

	key, err := store.parseLocation("s3://texts/abc-123.txt")
	require.NoError(t, err)
	require.Equal(t, "abc-123.txt", key)

	// Keys may contain slashes.
	key, err = store.parseLocation("s3://texts/2026/09/abc.txt")
	require.NoError(t, err)
	require.Equal(t, "2026/09/abc.txt", key)

	for _, bad := range []string{
		"texts/abc.txt",
		"s3://texts/",
		"s3://texts",
		"s3://other-bucket/abc.txt",
		"file://abc.txt",
		"",
	} {
		_, err := store.parseLocation(bad)
		require.Error(t, err, "location %q", bad)
	}
}

func TestFSBlobStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := newFSBlobStore(config.BlobConfig{BaseDir: dir})
	require.NoError(t, err)

	ctx := context.Background()
	location, err := store.Upload(ctx, "some pasted text\nwith two lines")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(location, "file://"))

	content, err := store.Get(ctx, location)
	require.NoError(t, err)
	require.Equal(t, "some pasted text\nwith two lines", content)

	require.NoError(t, store.Delete(ctx, location))
	_, err = store.Get(ctx, location)
	require.Error(t, err)

	// Deleting an already-gone blob is not an error.
	require.NoError(t, store.Delete(ctx, location))
}

func TestFSBlobStoreRejectsEscapingKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := newFSBlobStore(config.BlobConfig{BaseDir: dir})
	require.NoError(t, err)

	ctx := context.Background()
	for _, bad := range []string{
		"file://../etc/passwd",
		"file://sub/dir.txt",
		"file://",
		"s3://texts/abc.txt",
	} {
		_, err := store.Get(ctx, bad)
		require.Error(t, err, "location %q", bad)
	}
}
