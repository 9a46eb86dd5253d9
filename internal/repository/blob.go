package repository

import (
	"fmt"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/service"
)

// NewBlobStore selects the configured blob driver.
func NewBlobStore(cfg *config.Config) (service.BlobStore, error) {
	switch cfg.Blob.Driver {
	case config.BlobDriverHTTP:
		return newHTTPBlobStore(cfg.Blob), nil
	case config.BlobDriverFilesystem:
		return newFSBlobStore(cfg.Blob)
	default:
		return nil, fmt.Errorf("unknown blob driver: %q", cfg.Blob.Driver)
	}
}
