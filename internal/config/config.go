// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Transform TransformConfig
	Translate TranslateConfig
	Cache     CacheConfig
	Database  DatabaseConfig
	History   HistoryConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing the response (default: 0, bounded by TRANSFORM_TIMEOUT)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 60s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"60s"`
}

// UploadConfig holds document upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxPartSize caps the decompressed size of one package entry (default: 64MB)
	MaxPartSize int64 `env:"UPLOAD_MAX_PART_SIZE" default:"67108864"`
}

// TransformConfig holds document transform settings.
type TransformConfig struct {
	// MaxConcurrent is the maximum number of parallel transforms (default: 4)
	MaxConcurrent int `env:"TRANSFORM_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a transform slot (default: 30s)
	MaxWaitTime time.Duration `env:"TRANSFORM_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds one whole transform (default: 10m)
	Timeout time.Duration `env:"TRANSFORM_TIMEOUT" default:"10m"`
}

// TranslateConfig selects and tunes the translation backend.
type TranslateConfig struct {
	// Backend is one of: auto, deepl, openai, gemini, echo (default: auto).
	// auto chains DeepL and then OpenAI or Gemini, using whichever keys are set.
	Backend string `env:"TRANSLATE_BACKEND" default:"auto"`

	// DeepLAPIKey authenticates against DeepL; keys ending in ":fx" use the free endpoint
	DeepLAPIKey string `env:"DEEPL_API_KEY"`

	// DeepLURL overrides the DeepL endpoint
	DeepLURL string `env:"DEEPL_API_URL"`

	// OpenAIAPIKey authenticates against OpenAI
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// OpenAIModel is the chat model used for translation (default: gpt-4o-mini)
	OpenAIModel string `env:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// OpenAIBaseURL points at an OpenAI-compatible API
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// GeminiAPIKey authenticates against the Gemini API
	GeminiAPIKey string `env:"GEMINI_API_KEY" envAlt:"GOOGLE_API_KEY"`

	// GeminiModel is the Gemini model used for translation (default: gemini-2.0-flash)
	GeminiModel string `env:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	// CallTimeout bounds each backend request (default: 30s)
	CallTimeout time.Duration `env:"TRANSLATE_CALL_TIMEOUT" default:"30s"`

	// MaxRetries is the number of retries after the first attempt; the default
	// makes three attempts in total (default: 2)
	MaxRetries int `env:"TRANSLATE_MAX_RETRIES" default:"2"`

	// RetryInterval is the first backoff delay; it doubles per retry (default: 1s)
	RetryInterval time.Duration `env:"TRANSLATE_RETRY_INTERVAL" default:"1s"`

	// BreakerFailures consecutive failures open the circuit breaker (default: 5)
	BreakerFailures int `env:"TRANSLATE_BREAKER_FAILURES" default:"5"`

	// BreakerTimeout is how long the breaker stays open (default: 30s)
	BreakerTimeout time.Duration `env:"TRANSLATE_BREAKER_TIMEOUT" default:"30s"`
}

// CacheConfig selects where translations are cached.
type CacheConfig struct {
	// Backend is memory or redis (default: memory)
	Backend string `env:"CACHE_BACKEND" default:"memory"`

	// RedisURL is the redis:// or rediss:// connection string
	RedisURL string `env:"REDIS_URL"`

	// KeyPrefix namespaces cache keys in Redis (default: doctranslate:tr:)
	KeyPrefix string `env:"CACHE_KEY_PREFIX" default:"doctranslate:tr:"`

	// TTL expires Redis entries; 0 keeps them forever (default: 0)
	TTL time.Duration `env:"CACHE_TTL" default:"0s"`
}

// DatabaseConfig holds the optional job history database settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; job history is disabled when empty.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// AutoMigrate applies pending migrations on startup (default: true)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" default:"true"`
}

// HistoryConfig controls pruning of old job records.
type HistoryConfig struct {
	// RetentionDays is how long job records are kept (default: 90)
	RetentionDays int `env:"HISTORY_RETENTION_DAYS" default:"90"`

	// CheckInterval is how often the pruning job runs (default: 24h)
	CheckInterval time.Duration `env:"HISTORY_CHECK_INTERVAL" default:"24h"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// TranslateLimit is requests per minute for the translate endpoint (default: 10)
	TranslateLimit int `env:"RATE_LIMIT_TRANSLATE" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables X-API-Key checks on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// HistoryEnabled reports whether a job history database is configured.
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
