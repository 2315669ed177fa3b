package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend marks failures of a remote cache backend (connection refused,
// timeouts). Callers treat them as misses and carry on without the cache.
var ErrBackend = errors.New("cache backend unavailable")

// Backoff retries operations against a remote backend. The delay doubles
// after every transient failure.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	// Transient reports whether an error is worth another attempt. A nil
	// Transient never retries.
	Transient func(error) bool
}

// Do calls fn until it succeeds, fails with a non-transient error, runs
// out of attempts or ctx ends. Attempts below one mean a single call.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || b.Transient == nil || !b.Transient(err) || attempt >= b.Attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
