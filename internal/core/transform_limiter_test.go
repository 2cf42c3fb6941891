package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTransformLimiter_AcquireRelease(t *testing.T) {
	limiter := NewTransformLimiter(2, time.Second)
	ctx := context.Background()

	release1, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	release2, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if got := limiter.Status(); got.Active != 2 || got.Available != 0 {
		t.Errorf("Status = %+v, want 2 active and 0 available", got)
	}

	release1()
	release1() // second call is a no-op
	if got := limiter.ActiveCount(); got != 1 {
		t.Errorf("after release, ActiveCount = %d, want 1", got)
	}

	release2()
	if got := limiter.Status(); got.Active != 0 || got.Available != 2 {
		t.Errorf("Status = %+v, want 0 active and 2 available", got)
	}
}

func TestTransformLimiter_RejectsWhenFull(t *testing.T) {
	limiter := NewTransformLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	release, err := limiter.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer release()

	start := time.Now()
	if _, err := limiter.Acquire(ctx); err != ErrTooManyTransforms {
		t.Errorf("expected ErrTooManyTransforms, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("rejected after %v, expected to wait for the timeout", elapsed)
	}
}

func TestTransformLimiter_ContextCancellation(t *testing.T) {
	limiter := NewTransformLimiter(1, 5*time.Second)

	release, err := limiter.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := limiter.Acquire(ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Acquire did not return after context cancellation")
	}
}

func TestTransformLimiter_NeverExceedsMax(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewTransformLimiter(maxConcurrent, time.Second)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := limiter.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > maxConcurrent {
		t.Errorf("observed %d concurrent transforms, max %d", p, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestTransformLimiter_WaitForDrain(t *testing.T) {
	limiter := NewTransformLimiter(2, time.Second)

	if err := limiter.WaitForDrain(context.Background()); err != nil {
		t.Fatalf("idle limiter should drain immediately: %v", err)
	}

	release1, _ := limiter.Acquire(context.Background())
	release2, _ := limiter.Acquire(context.Background())

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	release1()
	select {
	case <-done:
		t.Fatal("WaitForDrain returned with one transform still running")
	case <-time.After(30 * time.Millisecond):
	}

	release2()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForDrain did not complete after all released")
	}
}

func TestTransformLimiter_WaitForDrain_ContextCancelled(t *testing.T) {
	limiter := NewTransformLimiter(1, time.Second)
	release, _ := limiter.Acquire(context.Background())
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestTransformLimiter_DefaultValues(t *testing.T) {
	limiter := NewTransformLimiter(0, 0)

	if got := limiter.Status().MaxConcurrent; got != DefaultMaxConcurrentTransforms {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentTransforms)
	}
}
