package cli

import (
	"context"
	"log/slog"

	"github.com/JonMunkholm/doctranslate/internal/config"
	"github.com/JonMunkholm/doctranslate/internal/core"
	"github.com/JonMunkholm/doctranslate/internal/translate"
)

// NewTranslator builds the translation client described by cfg, the same way
// the server does.
func NewTranslator(ctx context.Context, cfg *config.Config) (core.Translator, error) {
	cache, _, err := translate.NewCache(ctx, translate.CacheOptions{
		Backend:   cfg.Cache.Backend,
		RedisURL:  cfg.Cache.RedisURL,
		KeyPrefix: cfg.Cache.KeyPrefix,
		TTL:       cfg.Cache.TTL,
	})
	if err != nil {
		return nil, err
	}

	backend, err := translate.NewBackend(ctx, translate.BackendOptions{
		Name:          cfg.Translate.Backend,
		DeepLAPIKey:   cfg.Translate.DeepLAPIKey,
		DeepLURL:      cfg.Translate.DeepLURL,
		OpenAIAPIKey:  cfg.Translate.OpenAIAPIKey,
		OpenAIModel:   cfg.Translate.OpenAIModel,
		OpenAIBaseURL: cfg.Translate.OpenAIBaseURL,
		GeminiAPIKey:  cfg.Translate.GeminiAPIKey,
		GeminiModel:   cfg.Translate.GeminiModel,
	})
	if err != nil {
		return nil, err
	}

	client := translate.NewClient(backend, cache, translate.Config{
		CallTimeout:     cfg.Translate.CallTimeout,
		MaxRetries:      cfg.Translate.MaxRetries,
		RetryInterval:   cfg.Translate.RetryInterval,
		BreakerFailures: uint32(cfg.Translate.BreakerFailures),
		BreakerTimeout:  cfg.Translate.BreakerTimeout,
	})
	slog.Debug("translation backend ready", "backend", client.Backend())
	return client, nil
}
