// Package translate turns source text into text in a target language.
//
// Client is the only entry point used by the document pipeline. It never
// returns an error: when a backend fails, the caller gets its source text
// back and the failure is logged. Results are cached per (language code,
// source text) for the life of the cache.
package translate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/doctranslate/internal/logging"
)

// Defaults for Config. A zero MaxRetries means a single attempt, so
// DefaultMaxRetries gives three attempts in total, waiting 1s and then 2s.
const (
	DefaultCallTimeout     = 30 * time.Second
	DefaultMaxRetries      = 2
	DefaultRetryInterval   = time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

// nonLinguistic matches text made only of digits, punctuation, currency
// symbols and whitespace.
var nonLinguistic = regexp.MustCompile(`^[\p{Nd}\p{P}\p{Sc}\s]+$`)

// ShouldSkip reports whether text is left untranslated without calling a
// backend: blank text, text shorter than two characters once trimmed, and
// text with no linguistic content such as "2024", "$1,299.00" or "--".
func ShouldSkip(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	if utf8.RuneCountInString(trimmed) < 2 {
		return true
	}
	return nonLinguistic.MatchString(trimmed)
}

// Config controls retries, timeouts and the circuit breaker of a Client.
type Config struct {
	// CallTimeout bounds each backend attempt.
	CallTimeout time.Duration
	// MaxRetries is the number of retries after the first failed attempt,
	// so a request makes at most MaxRetries+1 attempts. Retries wait
	// RetryInterval, then double it each time.
	MaxRetries    int
	RetryInterval time.Duration
	// BreakerFailures consecutive failures open the breaker for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = DefaultBreakerFailures
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = DefaultBreakerTimeout
	}
	return c
}

// Client translates text through a Backend with caching, retries and a
// circuit breaker. It is safe for concurrent use.
type Client struct {
	backend Backend
	cache   Cache
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	group   singleflight.Group
}

// NewClient creates a Client. A nil cache is replaced by a MemoryCache.
func NewClient(backend Backend, cache Cache, cfg Config) *Client {
	if cache == nil {
		cache = NewMemoryCache()
	}
	cfg = cfg.withDefaults()

	c := &Client{
		backend: backend,
		cache:   cache,
		cfg:     cfg,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    backend.Name(),
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.FromContext(context.Background()).Warn("translation breaker state changed",
				"backend", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return c
}

// Backend returns the backend name.
func (c *Client) Backend() string {
	return c.backend.Name()
}

// CacheSize returns the number of cached translations. It is 0 when the
// cache does not implement Sizer or cannot be queried.
func (c *Client) CacheSize(ctx context.Context) int {
	sizer, ok := c.cache.(Sizer)
	if !ok {
		return 0
	}
	n, err := sizer.Len(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("translation cache size unavailable", "error", err)
		return 0
	}
	return n
}

// Translate returns text translated into language. Blank text, text that
// ShouldSkip rejects, and text whose translation fails are returned as given.
//
// Concurrent misses for the same key share one backend call. That call does
// not inherit the cancellation of whichever caller started it, so a request
// that gives up never hands its context error to the others; it stays bounded
// by CallTimeout and MaxRetries. Each caller stops waiting when its own ctx is
// done.
func (c *Client) Translate(ctx context.Context, text, language string) string {
	if ShouldSkip(text) {
		return text
	}
	if ctx.Err() != nil {
		return text
	}

	code := ResolveLanguage(language)
	key := CacheKey(code, text)
	logger := logging.FromContext(ctx)

	if v, ok := c.lookup(ctx, key); ok {
		return v
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		if v, ok := c.lookup(shared, key); ok {
			return v, nil
		}

		out, err := c.call(shared, text, code)
		if err != nil {
			return nil, err
		}

		if err := c.cache.Set(shared, key, out); err != nil {
			logging.FromContext(shared).Warn("translation cache write failed", "error", err)
		}
		return out, nil
	})

	select {
	case <-ctx.Done():
		logger.Debug("stopped waiting for translation",
			"language", code,
			"text", truncate(text, 50),
			"error", ctx.Err(),
		)
		return text
	case res := <-ch:
		if res.Err != nil {
			logger.Warn("translation failed, keeping source text",
				"backend", c.backend.Name(),
				"language", code,
				"text", truncate(text, 50),
				"error", res.Err,
			)
			return text
		}
		return res.Val.(string)
	}
}

func (c *Client) lookup(ctx context.Context, key string) (string, bool) {
	v, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logging.FromContext(ctx).Warn("translation cache read failed", "error", err)
		return "", false
	}
	return v, ok
}

// call runs one backend request with per-attempt timeout, exponential
// backoff between attempts and the circuit breaker around each attempt.
func (c *Client) call(ctx context.Context, text, code string) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.cfg.RetryInterval << 6
	b.MaxElapsedTime = 0

	attempt := 0
	op := func() (string, error) {
		attempt++
		if err := ctx.Err(); err != nil {
			return "", backoff.Permanent(err)
		}

		res, err := c.breaker.Execute(func() (interface{}, error) {
			callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
			defer cancel()
			return c.backend.Translate(callCtx, text, code)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return "", backoff.Permanent(err)
			}
			logging.FromContext(ctx).Debug("translation attempt failed",
				"backend", c.backend.Name(),
				"attempt", attempt,
				"error", err,
			)
			return "", err
		}

		out, _ := res.(string)
		if out == "" {
			return "", ErrEmptyTranslation
		}
		return out, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries)), ctx)
	out, err := backoff.RetryWithData(op, policy)
	if err != nil {
		return "", fmt.Errorf("after %d attempt(s): %w", attempt, err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
