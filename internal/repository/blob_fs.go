package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/google/uuid"
)

const fsLocationScheme = "file://"

// fsBlobStore keeps blobs on the local filesystem. Meant for single-node and
// development runs where an object service is overkill.
type fsBlobStore struct {
	baseDir string
}

func newFSBlobStore(cfg config.BlobConfig) (service.BlobStore, error) {
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", cfg.BaseDir, err)
	}
	return &fsBlobStore{baseDir: cfg.BaseDir}, nil
}

func (s *fsBlobStore) Upload(ctx context.Context, content string) (string, error) {
	key := uuid.New().String() + ".txt"
	if err := os.WriteFile(filepath.Join(s.baseDir, key), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write blob %s: %w", key, err)
	}
	return fsLocationScheme + key, nil
}

func (s *fsBlobStore) Get(ctx context.Context, location string) (string, error) {
	key, err := s.parseLocation(location)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, key))
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", key, err)
	}
	return string(data), nil
}

func (s *fsBlobStore) Delete(ctx context.Context, location string) error {
	key, err := s.parseLocation(location)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.baseDir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}
	return nil
}

// parseLocation validates the scheme and refuses keys that would escape the
// base directory.
func (s *fsBlobStore) parseLocation(location string) (string, error) {
	key := strings.TrimPrefix(location, fsLocationScheme)
	if key == location || key == "" {
		return "", fmt.Errorf("invalid blob location format: %q", location)
	}
	if strings.Contains(key, "..") || strings.ContainsRune(key, os.PathSeparator) {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}
	return key, nil
}
