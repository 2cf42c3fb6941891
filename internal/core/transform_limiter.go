package core

// transform_limiter.go bounds how many documents are translated at once.
//
// Each transform holds one slot for its whole run. When all slots are taken a
// request waits up to maxWait before failing with ErrTooManyTransforms.
// WaitForDrain lets shutdown block until running transforms finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyTransforms is returned when all transform slots are occupied and
// the wait timeout expires. Clients should retry after a short delay.
var ErrTooManyTransforms = errors.New("too many concurrent transforms, please try again later")

// DefaultMaxConcurrentTransforms is the default limit for parallel transforms.
const DefaultMaxConcurrentTransforms = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// TransformLimiter is a counting semaphore with drain support.
type TransformLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu      sync.Mutex
	active  int
	drained chan struct{} // closed while active == 0
}

// NewTransformLimiter creates a limiter that allows at most maxConcurrent
// simultaneous transforms.
func NewTransformLimiter(maxConcurrent int, maxWait time.Duration) *TransformLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentTransforms
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	drained := make(chan struct{})
	close(drained)

	return &TransformLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		drained: drained,
	}
}

// Acquire waits for a free slot and returns the function that releases it.
// The release function is safe to call more than once.
func (l *TransformLimiter) Acquire(ctx context.Context) (func(), error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-timer.C:
		return nil, ErrTooManyTransforms
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	l.mu.Lock()
	if l.active == 0 {
		l.drained = make(chan struct{})
	}
	l.active++
	l.mu.Unlock()

	var once sync.Once
	return func() { once.Do(l.release) }, nil
}

func (l *TransformLimiter) release() {
	l.mu.Lock()
	l.active--
	if l.active == 0 {
		close(l.drained)
	}
	l.mu.Unlock()

	<-l.slots
}

// ActiveCount returns the number of running transforms.
func (l *TransformLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// WaitForDrain blocks until no transform is running or ctx is done.
func (l *TransformLimiter) WaitForDrain(ctx context.Context) error {
	l.mu.Lock()
	drained := l.drained
	l.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TransformLimiterStatus is a snapshot of the limiter for health output.
type TransformLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state.
func (l *TransformLimiter) Status() TransformLimiterStatus {
	active := l.ActiveCount()
	return TransformLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - active,
		MaxConcurrent: cap(l.slots),
	}
}
