package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Upload validation
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Upload.MaxPartSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_PART_SIZE must be positive")
	}

	// Transform validation
	if c.Transform.MaxConcurrent <= 0 {
		errs = append(errs, "TRANSFORM_MAX_CONCURRENT must be positive")
	}
	if c.Transform.MaxWaitTime <= 0 {
		errs = append(errs, "TRANSFORM_MAX_WAIT_TIME must be positive")
	}
	if c.Transform.Timeout <= 0 {
		errs = append(errs, "TRANSFORM_TIMEOUT must be positive")
	}

	// Translate validation
	switch strings.ToLower(c.Translate.Backend) {
	case "auto":
	case "deepl":
		if c.Translate.DeepLAPIKey == "" {
			errs = append(errs, "TRANSLATE_BACKEND=deepl requires DEEPL_API_KEY")
		}
	case "openai":
		if c.Translate.OpenAIAPIKey == "" {
			errs = append(errs, "TRANSLATE_BACKEND=openai requires OPENAI_API_KEY")
		}
	case "gemini":
		if c.Translate.GeminiAPIKey == "" {
			errs = append(errs, "TRANSLATE_BACKEND=gemini requires GEMINI_API_KEY")
		}
	case "echo":
	default:
		errs = append(errs, fmt.Sprintf("TRANSLATE_BACKEND (%q) must be one of: auto, deepl, openai, gemini, echo", c.Translate.Backend))
	}
	if c.Translate.CallTimeout <= 0 {
		errs = append(errs, "TRANSLATE_CALL_TIMEOUT must be positive")
	}
	if c.Translate.MaxRetries < 0 {
		errs = append(errs, "TRANSLATE_MAX_RETRIES must be non-negative")
	}
	if c.Translate.BreakerFailures <= 0 {
		errs = append(errs, "TRANSLATE_BREAKER_FAILURES must be positive")
	}

	// Cache validation
	switch strings.ToLower(c.Cache.Backend) {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			errs = append(errs, "CACHE_BACKEND=redis requires REDIS_URL")
		}
	default:
		errs = append(errs, fmt.Sprintf("CACHE_BACKEND (%q) must be one of: memory, redis", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, "CACHE_TTL must be non-negative")
	}

	// Database validation (only when history is enabled)
	if c.HistoryEnabled() {
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
		if c.History.RetentionDays <= 0 {
			errs = append(errs, "HISTORY_RETENTION_DAYS must be positive")
		}
		if c.History.CheckInterval <= 0 {
			errs = append(errs, "HISTORY_CHECK_INTERVAL must be positive")
		}
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.TranslateLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_TRANSLATE must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Database and Redis URLs and API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Transform: {MaxConcurrent: %d, Timeout: %s}, ",
		c.Transform.MaxConcurrent, c.Transform.Timeout))
	b.WriteString(fmt.Sprintf("Translate: {Backend: %q, DeepL: %s, OpenAI: %s, Gemini: %s}, ",
		c.Translate.Backend, mask(c.Translate.DeepLAPIKey), mask(c.Translate.OpenAIAPIKey), mask(c.Translate.GeminiAPIKey)))
	b.WriteString(fmt.Sprintf("Cache: {Backend: %q, RedisURL: %s}, ", c.Cache.Backend, mask(c.Cache.RedisURL)))
	b.WriteString(fmt.Sprintf("Database: {URL: %s, MaxConns: %d, MinConns: %d}, ",
		mask(c.Database.URL), c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
