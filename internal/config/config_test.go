package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Mode != "debug" {
		t.Fatalf("Server.Mode = %q, want %q", cfg.Server.Mode, "debug")
	}
	if cfg.Server.ServiceID == "" {
		t.Fatalf("Server.ServiceID should default to a non-empty id")
	}
	if cfg.HashPool.Threshold != 10 {
		t.Fatalf("HashPool.Threshold = %d, want 10", cfg.HashPool.Threshold)
	}
	if cfg.HashPool.LockTTL() != 60*time.Second {
		t.Fatalf("HashPool.LockTTL() = %v, want 60s", cfg.HashPool.LockTTL())
	}
	if cfg.HashPool.BatchSize != 100 {
		t.Fatalf("HashPool.BatchSize = %d, want 100", cfg.HashPool.BatchSize)
	}
	if cfg.HashPool.MaxRetries != 5 {
		t.Fatalf("HashPool.MaxRetries = %d, want 5", cfg.HashPool.MaxRetries)
	}
	if cfg.Cache.DefaultTTL() != 3*time.Hour {
		t.Fatalf("Cache.DefaultTTL() = %v, want 3h", cfg.Cache.DefaultTTL())
	}
	if cfg.Cache.PopularTTL() != 6*time.Hour {
		t.Fatalf("Cache.PopularTTL() = %v, want 6h", cfg.Cache.PopularTTL())
	}
	if cfg.Cache.BucketWindow() != 24*time.Hour {
		t.Fatalf("Cache.BucketWindow() = %v, want 24h", cfg.Cache.BucketWindow())
	}
	if cfg.Blob.Driver != BlobDriverFilesystem {
		t.Fatalf("Blob.Driver = %q, want %q", cfg.Blob.Driver, BlobDriverFilesystem)
	}
	if cfg.Jobs.PoolHealthSpec != "@every 30s" {
		t.Fatalf("Jobs.PoolHealthSpec = %q, want %q", cfg.Jobs.PoolHealthSpec, "@every 30s")
	}
}

func TestLoadFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("PASTEBIN_HASH_POOL_THRESHOLD", "25")
	t.Setenv("PASTEBIN_SERVER_SERVICE_ID", "text-service-7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.HashPool.Threshold != 25 {
		t.Fatalf("HashPool.Threshold = %d, want 25", cfg.HashPool.Threshold)
	}
	if cfg.Server.ServiceID != "text-service-7" {
		t.Fatalf("Server.ServiceID = %q, want %q", cfg.Server.ServiceID, "text-service-7")
	}
}

func TestConfigAddressHelpers(t *testing.T) {
	db := DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "postgres",
		DBName:  "pastebin",
		SSLMode: "disable",
	}
	if !strings.Contains(db.DSN(), "dbname=pastebin") {
		t.Fatalf("DatabaseConfig.DSN() missing dbname: %q", db.DSN())
	}

	redis := RedisConfig{Host: "redis", Port: 6379}
	if redis.Address() != "redis:6379" {
		t.Fatalf("RedisConfig.Address() = %q", redis.Address())
	}
}

func TestValidateErrors(t *testing.T) {
	buildValid := func(t *testing.T) *Config {
		t.Helper()
		viper.Reset()
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "unknown blob driver",
			mutate:  func(c *Config) { c.Blob.Driver = "carrier-pigeon" },
			wantErr: "unknown blob driver",
		},
		{
			name:    "http driver needs endpoint",
			mutate:  func(c *Config) { c.Blob.Driver = BlobDriverHTTP; c.Blob.Bucket = "texts" },
			wantErr: "blob.endpoint",
		},
		{
			name: "http driver needs bucket",
			mutate: func(c *Config) {
				c.Blob.Driver = BlobDriverHTTP
				c.Blob.Endpoint = "http://localhost:9000"
				c.Blob.Bucket = ""
			},
			wantErr: "blob.bucket",
		},
		{
			name:    "filesystem driver needs base dir",
			mutate:  func(c *Config) { c.Blob.BaseDir = "" },
			wantErr: "blob.base_dir",
		},
		{
			name:    "negative threshold",
			mutate:  func(c *Config) { c.HashPool.Threshold = -1 },
			wantErr: "hash_pool.threshold",
		},
		{
			name:    "lock ttl positive",
			mutate:  func(c *Config) { c.HashPool.LockTTLSeconds = 0 },
			wantErr: "hash_pool.lock_ttl_seconds",
		},
		{
			name:    "max retries positive",
			mutate:  func(c *Config) { c.HashPool.MaxRetries = 0 },
			wantErr: "hash_pool.max_retries",
		},
		{
			name:    "cache ttls positive",
			mutate:  func(c *Config) { c.Cache.DefaultTTLSeconds = 0 },
			wantErr: "cache TTLs",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := buildValid(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeStringSlice(t *testing.T) {
	values := normalizeStringSlice([]string{" a ", "", "b", "   ", "c"})
	if len(values) != 3 || values[0] != "a" || values[1] != "b" || values[2] != "c" {
		t.Fatalf("normalizeStringSlice() unexpected result: %#v", values)
	}
}
