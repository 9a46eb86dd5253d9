package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/service"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"github.com/tidwall/gjson"
)

const blobLocationScheme = "s3://"

// httpBlobStore talks to an S3-compatible object service over its HTTP API.
// Locations have the form s3://{bucket}/{key}.
type httpBlobStore struct {
	client *req.Client
	bucket string
}

func newHTTPBlobStore(cfg config.BlobConfig) service.BlobStore {
	client := req.C().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetCommonRetryCount(2).
		SetCommonRetryBackoffInterval(100*time.Millisecond, time.Second)
	if cfg.AccessToken != "" {
		client.SetCommonBearerAuthToken(cfg.AccessToken)
	}
	return &httpBlobStore{client: client, bucket: cfg.Bucket}
}

func (s *httpBlobStore) Upload(ctx context.Context, content string) (string, error) {
	key := uuid.New().String() + ".txt"

	resp, err := s.client.R().
		SetContext(ctx).
		SetContentType("text/plain; charset=utf-8").
		SetBody(content).
		Put(fmt.Sprintf("/%s/%s", s.bucket, key))
	if err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}
	if !resp.IsSuccessState() {
		return "", fmt.Errorf("upload blob: unexpected status %d", resp.StatusCode)
	}

	// Some object services echo back the key they stored under; trust theirs
	// when present.
	if body := resp.String(); body != "" {
		if stored := gjson.Get(body, "key").String(); stored != "" {
			key = stored
		}
	}
	return blobLocationScheme + s.bucket + "/" + key, nil
}

func (s *httpBlobStore) Get(ctx context.Context, location string) (string, error) {
	key, err := s.parseLocation(location)
	if err != nil {
		return "", err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/%s/%s", s.bucket, key))
	if err != nil {
		return "", fmt.Errorf("get blob %s: %w", key, err)
	}
	if !resp.IsSuccessState() {
		return "", fmt.Errorf("get blob %s: unexpected status %d", key, resp.StatusCode)
	}
	return resp.String(), nil
}

func (s *httpBlobStore) Delete(ctx context.Context, location string) error {
	key, err := s.parseLocation(location)
	if err != nil {
		return err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/%s/%s", s.bucket, key))
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("delete blob %s: unexpected status %d", key, resp.StatusCode)
	}
	return nil
}

// parseLocation splits s3://{bucket}/{key} and rejects locations pointing at
// a different bucket than this store is configured for.
func (s *httpBlobStore) parseLocation(location string) (string, error) {
	trimmed := strings.TrimPrefix(location, blobLocationScheme)
	if trimmed == location {
		return "", fmt.Errorf("invalid blob location format: %q", location)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid blob location format: %q", location)
	}
	if parts[0] != s.bucket {
		return "", fmt.Errorf("unexpected bucket %q in location %q", parts[0], location)
	}
	return parts[1], nil
}
