package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records calls and answers with a fixed transformation.
type fakeBackend struct {
	calls atomic.Int32
	fail  int32 // number of leading calls that fail
	delay time.Duration
	fn    func(text, code string) string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Translate(ctx context.Context, text, code string) (string, error) {
	n := f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if n <= f.fail {
		return "", errors.New("backend unavailable")
	}
	if f.fn != nil {
		return f.fn(text, code), nil
	}
	return "[" + code + "]" + text, nil
}

var fastRetries = Config{RetryInterval: time.Millisecond, CallTimeout: time.Second}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   \n\t", true},
		{"A", true},
		{" x ", true},
		{"2024", true},
		{"3.14", true},
		{"$1,299.00", true},
		{"€ 10 - 20 %", true},
		{"...", true},
		{"12 345", true},
		{"Hi", false},
		{"Hello world", false},
		{"Q3 revenue", false},
		{"Ok!", false},
		{"Čas", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSkip(tt.text))
		})
	}
}

func TestClient_SkipsWithoutBackendCall(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend, nil, fastRetries)
	ctx := context.Background()

	for _, text := range []string{"", "  ", "A", "2024", "$1,299.00"} {
		assert.Equal(t, text, c.Translate(ctx, text, "slovenian"))
	}
	assert.Equal(t, int32(0), backend.calls.Load())
}

func TestClient_CachesPerLanguage(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend, NewMemoryCache(), fastRetries)
	ctx := context.Background()

	first := c.Translate(ctx, "Quarterly results", "slovenian")
	second := c.Translate(ctx, "Quarterly results", "sl")
	assert.Equal(t, "[sl]Quarterly results", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), backend.calls.Load())

	other := c.Translate(ctx, "Quarterly results", "german")
	assert.Equal(t, "[de]Quarterly results", other)
	assert.Equal(t, int32(2), backend.calls.Load())
	assert.Equal(t, 2, c.CacheSize(ctx))
}

func TestClient_CacheKeyUsesExactText(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend, nil, fastRetries)
	ctx := context.Background()

	c.Translate(ctx, "Hello", "fr")
	c.Translate(ctx, "Hello ", "fr")
	assert.Equal(t, int32(2), backend.calls.Load())
}

func TestClient_RetriesThenSucceeds(t *testing.T) {
	backend := &fakeBackend{fail: 2}
	cfg := fastRetries
	cfg.MaxRetries = 3
	c := NewClient(backend, nil, cfg)

	got := c.Translate(context.Background(), "Good morning", "it")
	assert.Equal(t, "[it]Good morning", got)
	assert.Equal(t, int32(3), backend.calls.Load())
}

func TestClient_FailureReturnsSourceText(t *testing.T) {
	backend := &fakeBackend{fail: 100}
	cfg := fastRetries
	cfg.MaxRetries = 2
	c := NewClient(backend, nil, cfg)
	ctx := context.Background()

	got := c.Translate(ctx, "Good morning", "it")
	assert.Equal(t, "Good morning", got)
	assert.Equal(t, int32(3), backend.calls.Load())

	// Failures are not cached.
	assert.Equal(t, 0, c.CacheSize(ctx))
}

func TestClient_DefaultRetriesMakeThreeAttempts(t *testing.T) {
	backend := &fakeBackend{fail: 100}
	c := NewClient(backend, nil, Config{MaxRetries: DefaultMaxRetries, RetryInterval: time.Millisecond})

	assert.Equal(t, "Good night", c.Translate(context.Background(), "Good night", "it"))
	assert.Equal(t, int32(3), backend.calls.Load())
}

func TestClient_CallTimeout(t *testing.T) {
	backend := &fakeBackend{delay: time.Second}
	c := NewClient(backend, nil, Config{CallTimeout: 10 * time.Millisecond, RetryInterval: time.Millisecond})

	start := time.Now()
	got := c.Translate(context.Background(), "Slow backend", "hr")
	assert.Equal(t, "Slow backend", got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	backend := &fakeBackend{fail: 1000}
	c := NewClient(backend, nil, Config{
		RetryInterval:   time.Millisecond,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	})
	ctx := context.Background()

	c.Translate(ctx, "first text", "de")
	c.Translate(ctx, "second text", "de")
	require.Equal(t, int32(2), backend.calls.Load())

	// Breaker is open: no further backend calls, source text returned.
	assert.Equal(t, "third text", c.Translate(ctx, "third text", "de"))
	assert.Equal(t, int32(2), backend.calls.Load())
}

func TestClient_CancelledContext(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend, nil, fastRetries)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "Hello there", c.Translate(ctx, "Hello there", "es"))
	assert.Equal(t, int32(0), backend.calls.Load())
}

func TestClient_ConcurrentMissesCollapse(t *testing.T) {
	backend := &fakeBackend{delay: 50 * time.Millisecond}
	c := NewClient(backend, nil, fastRetries)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Translate(ctx, "Shared title", "sr")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "[sr]Shared title", r)
	}
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestClient_CancelledCallerDoesNotFailOthers(t *testing.T) {
	backend := &fakeBackend{delay: 200 * time.Millisecond}
	c := NewClient(backend, nil, fastRetries)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	var wg sync.WaitGroup
	var gotA, gotB string
	wg.Add(2)
	go func() {
		defer wg.Done()
		gotA = c.Translate(ctxA, "Hello world", "german")
	}()
	go func() {
		defer wg.Done()
		gotB = c.Translate(context.Background(), "Hello world", "german")
	}()

	time.Sleep(40 * time.Millisecond)
	cancelA()
	wg.Wait()

	assert.Equal(t, "Hello world", gotA, "cancelled caller keeps its source text")
	assert.Equal(t, "[de]Hello world", gotB)
	assert.Equal(t, int32(1), backend.calls.Load())

	// The shared result was cached for later requests.
	assert.Equal(t, "[de]Hello world", c.Translate(context.Background(), "Hello world", "de"))
	assert.Equal(t, int32(1), backend.calls.Load())
}

// plainCache stores entries without reporting a size.
type plainCache struct{ m sync.Map }

func (p *plainCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := p.m.Load(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (p *plainCache) Set(_ context.Context, key, value string) error {
	p.m.Store(key, value)
	return nil
}

func TestClient_CacheSizeWithoutSizer(t *testing.T) {
	c := NewClient(&fakeBackend{}, &plainCache{}, fastRetries)
	ctx := context.Background()

	assert.Equal(t, "[fr]Good evening", c.Translate(ctx, "Good evening", "fr"))
	assert.Equal(t, 0, c.CacheSize(ctx))
}

func TestChain_FallsBack(t *testing.T) {
	failing := &fakeBackend{fail: 100}
	working := &fakeBackend{fn: func(text, _ string) string { return strings.ToUpper(text) }}
	chain := Chain{failing, working}

	out, err := chain.Translate(context.Background(), "hello", "en")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", out)
	assert.Equal(t, "fake>fake", chain.Name())

	_, err = Chain{}.Translate(context.Background(), "hello", "en")
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestEcho(t *testing.T) {
	out, err := Echo{}.Translate(context.Background(), "unchanged", "sl")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}
