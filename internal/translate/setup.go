package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// BackendOptions selects and configures a Backend by name.
type BackendOptions struct {
	// Name is one of auto, deepl, openai, gemini or echo.
	// auto chains every backend that has a key, DeepL first, and falls back
	// to echo when no key is set.
	Name string

	DeepLAPIKey string
	DeepLURL    string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiAPIKey string
	GeminiModel  string
}

// NewBackend builds the backend described by opts.
func NewBackend(ctx context.Context, opts BackendOptions) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Name)) {
	case "", "auto":
		return autoBackend(ctx, opts)
	case "deepl":
		return newDeepL(opts), nil
	case "openai":
		return NewOpenAI(opts.OpenAIAPIKey, opts.OpenAIModel, opts.OpenAIBaseURL), nil
	case "gemini":
		return NewGemini(ctx, opts.GeminiAPIKey, opts.GeminiModel)
	case "echo":
		return Echo{}, nil
	default:
		return nil, fmt.Errorf("unknown translation backend %q", opts.Name)
	}
}

func autoBackend(ctx context.Context, opts BackendOptions) (Backend, error) {
	var chain Chain
	if opts.DeepLAPIKey != "" {
		chain = append(chain, newDeepL(opts))
	}
	if opts.OpenAIAPIKey != "" {
		chain = append(chain, NewOpenAI(opts.OpenAIAPIKey, opts.OpenAIModel, opts.OpenAIBaseURL))
	}
	if opts.GeminiAPIKey != "" {
		g, err := NewGemini(ctx, opts.GeminiAPIKey, opts.GeminiModel)
		if err != nil {
			return nil, err
		}
		chain = append(chain, g)
	}

	switch len(chain) {
	case 0:
		slog.Warn("no translation API key set, documents will be returned untranslated")
		return Echo{}, nil
	case 1:
		return chain[0], nil
	default:
		return chain, nil
	}
}

func newDeepL(opts BackendOptions) *DeepL {
	var dopts []DeepLOption
	if opts.DeepLURL != "" {
		dopts = append(dopts, WithDeepLEndpoint(opts.DeepLURL))
	}
	return NewDeepL(opts.DeepLAPIKey, dopts...)
}

// CacheOptions selects where translations are cached.
type CacheOptions struct {
	Backend   string // memory or redis
	RedisURL  string
	KeyPrefix string
	TTL       time.Duration
}

// NewCache builds the cache described by opts. The returned close function
// releases the Redis connection and is never nil.
func NewCache(ctx context.Context, opts CacheOptions) (Cache, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "memory":
		return NewMemoryCache(), func() error { return nil }, nil
	case "redis":
		client, err := ConnectRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisCache(client, opts.KeyPrefix, opts.TTL), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
