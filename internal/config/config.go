// Package config provides configuration loading, defaults, and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

// Blob store drivers. The HTTP driver talks to an S3-compatible object
// service; the filesystem driver keeps everything local for single-node runs.
const (
	BlobDriverHTTP       = "http"
	BlobDriverFilesystem = "filesystem"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Blob     BlobConfig     `mapstructure:"blob"`
	HashPool HashPoolConfig `mapstructure:"hash_pool"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

type ServerConfig struct {
	Host              string   `mapstructure:"host"`
	Port              int      `mapstructure:"port"`
	Mode              string   `mapstructure:"mode"` // debug/release
	ReadHeaderTimeout int      `mapstructure:"read_header_timeout"`
	IdleTimeout       int      `mapstructure:"idle_timeout"`
	TrustedProxies    []string `mapstructure:"trusted_proxies"`
	// ServiceID identifies this replica in generation-request messages so the
	// generator can tell which instance asked for a refill.
	ServiceID string `mapstructure:"service_id"`
}

type LogConfig struct {
	Level           string            `mapstructure:"level"`
	Format          string            `mapstructure:"format"`
	ServiceName     string            `mapstructure:"service_name"`
	Environment     string            `mapstructure:"env"`
	Caller          bool              `mapstructure:"caller"`
	StacktraceLevel string            `mapstructure:"stacktrace_level"`
	Output          LogOutputConfig   `mapstructure:"output"`
	Rotation        LogRotationConfig `mapstructure:"rotation"`
}

type LogOutputConfig struct {
	ToStdout bool   `mapstructure:"to_stdout"`
	ToFile   bool   `mapstructure:"to_file"`
	FilePath string `mapstructure:"file_path"`
}

type LogRotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
	LocalTime  bool `mapstructure:"local_time"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	// Connection pool limits. MaxOpenConns caps concurrent connections,
	// MaxIdleConns keeps warm connections around between bursts.
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes"`
	ConnMaxIdleTimeMinutes int `mapstructure:"conn_max_idle_time_minutes"`
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port"`
	Password            string `mapstructure:"password"`
	DB                  int    `mapstructure:"db"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
}

func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type BlobConfig struct {
	Driver string `mapstructure:"driver"` // http/filesystem
	// HTTP driver settings.
	Endpoint       string `mapstructure:"endpoint"`
	Bucket         string `mapstructure:"bucket"`
	AccessToken    string `mapstructure:"access_token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	// Filesystem driver settings.
	BaseDir string `mapstructure:"base_dir"`
}

// HashPoolConfig drives the shared hash reservation queue.
type HashPoolConfig struct {
	// Threshold is the queue length below which an empty pop triggers a
	// generation request.
	Threshold int `mapstructure:"threshold"`
	// LockTTLSeconds bounds how long a generation lock may be held before it
	// expires on its own.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds"`
	// BatchSize is how many tokens each generation request asks for.
	BatchSize int `mapstructure:"batch_size"`
	// MaxRetries bounds the reservation retry loop during text creation.
	MaxRetries int `mapstructure:"max_retries"`
	// StuckLockSeconds is the remaining-TTL safety margin below which a health
	// check treats the generation lock as abandoned and reclaims it.
	StuckLockSeconds int `mapstructure:"stuck_lock_seconds"`
}

func (h *HashPoolConfig) LockTTL() time.Duration {
	return time.Duration(h.LockTTLSeconds) * time.Second
}

type CacheConfig struct {
	DefaultTTLSeconds int `mapstructure:"default_ttl_seconds"`
	PopularTTLSeconds int `mapstructure:"popular_ttl_seconds"`
	PopularThreshold  int `mapstructure:"popular_threshold"`
	BucketWindowHours int `mapstructure:"bucket_window_hours"`
}

func (c *CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

func (c *CacheConfig) PopularTTL() time.Duration {
	return time.Duration(c.PopularTTLSeconds) * time.Second
}

func (c *CacheConfig) BucketWindow() time.Duration {
	return time.Duration(c.BucketWindowHours) * time.Hour
}

type JobsConfig struct {
	// PoolHealthSpec is the cron spec for the hash pool health check.
	PoolHealthSpec string `mapstructure:"pool_health_spec"`
	// ExpiredCleanupSpec is the cron spec for purging expired text records.
	ExpiredCleanupSpec string `mapstructure:"expired_cleanup_spec"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Config paths in priority order.
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		viper.AddConfigPath(dataDir)
	}
	viper.AddConfigPath("/app/data")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/pastebin")

	viper.SetEnvPrefix("PASTEBIN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config error: %w", err)
		}
		// Missing config file falls back to defaults + env.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}

	cfg.Server.Mode = strings.ToLower(strings.TrimSpace(cfg.Server.Mode))
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	cfg.Server.ServiceID = strings.TrimSpace(cfg.Server.ServiceID)
	if cfg.Server.ServiceID == "" {
		cfg.Server.ServiceID = defaultServiceID()
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.CORS.AllowedOrigins = normalizeStringSlice(cfg.CORS.AllowedOrigins)
	cfg.Blob.Driver = strings.ToLower(strings.TrimSpace(cfg.Blob.Driver))
	cfg.Blob.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Blob.Endpoint), "/")
	cfg.Blob.Bucket = strings.TrimSpace(cfg.Blob.Bucket)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Blob.Driver {
	case BlobDriverHTTP:
		if c.Blob.Endpoint == "" {
			return fmt.Errorf("blob.endpoint is required for the http driver")
		}
		if c.Blob.Bucket == "" {
			return fmt.Errorf("blob.bucket is required for the http driver")
		}
	case BlobDriverFilesystem:
		if c.Blob.BaseDir == "" {
			return fmt.Errorf("blob.base_dir is required for the filesystem driver")
		}
	default:
		return fmt.Errorf("unknown blob driver: %q", c.Blob.Driver)
	}
	if c.HashPool.Threshold < 0 {
		return fmt.Errorf("hash_pool.threshold must not be negative")
	}
	if c.HashPool.LockTTLSeconds <= 0 {
		return fmt.Errorf("hash_pool.lock_ttl_seconds must be positive")
	}
	if c.HashPool.MaxRetries <= 0 {
		return fmt.Errorf("hash_pool.max_retries must be positive")
	}
	if c.Cache.DefaultTTLSeconds <= 0 || c.Cache.PopularTTLSeconds <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.read_header_timeout", 10)
	viper.SetDefault("server.idle_timeout", 120)
	// Empty default so the env override binds; Load falls back to a
	// hostname-derived id.
	viper.SetDefault("server.service_id", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.service_name", "pastebin")
	viper.SetDefault("log.env", "production")
	viper.SetDefault("log.caller", true)
	viper.SetDefault("log.stacktrace_level", "error")
	viper.SetDefault("log.output.to_stdout", true)
	viper.SetDefault("log.output.to_file", false)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "pastebin")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime_minutes", 30)
	viper.SetDefault("database.conn_max_idle_time_minutes", 5)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.dial_timeout_seconds", 5)
	viper.SetDefault("redis.read_timeout_seconds", 3)
	viper.SetDefault("redis.write_timeout_seconds", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)

	viper.SetDefault("blob.driver", BlobDriverFilesystem)
	viper.SetDefault("blob.base_dir", "./data/blobs")
	viper.SetDefault("blob.timeout_seconds", 30)

	viper.SetDefault("hash_pool.threshold", 10)
	viper.SetDefault("hash_pool.lock_ttl_seconds", 60)
	viper.SetDefault("hash_pool.batch_size", 100)
	viper.SetDefault("hash_pool.max_retries", 5)
	viper.SetDefault("hash_pool.stuck_lock_seconds", 5)

	viper.SetDefault("cache.default_ttl_seconds", 10800)
	viper.SetDefault("cache.popular_ttl_seconds", 21600)
	viper.SetDefault("cache.popular_threshold", 10)
	viper.SetDefault("cache.bucket_window_hours", 24)

	viper.SetDefault("jobs.pool_health_spec", "@every 30s")
	viper.SetDefault("jobs.expired_cleanup_spec", "@hourly")
}

func defaultServiceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "text-service-1"
	}
	return "text-service-" + host
}

func normalizeStringSlice(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ProviderSet is the Wire provider set for configuration.
var ProviderSet = wire.NewSet(Load)
