// Package retry runs an operation again with exponential backoff while it
// reports a transient failure.
package retry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Manager handles retry logic with exponential backoff.
type Manager struct {
	maxRetries int
	delay      time.Duration
	backoff    float64
	retryCount atomic.Int64
}

// NewManager creates a retry manager. maxRetries is the number of attempts
// after the first; zero disables retrying.
func NewManager(maxRetries int, delay time.Duration, backoff float64) *Manager {
	if backoff < 1 {
		backoff = 1
	}
	return &Manager{
		maxRetries: maxRetries,
		delay:      delay,
		backoff:    backoff,
	}
}

// Do calls fn until it succeeds, reports the failure as permanent, the
// attempts run out or ctx is done. fn returns whether its error is worth
// another attempt.
func (m *Manager) Do(ctx context.Context, fn func() (bool, error)) error {
	currentDelay := m.delay

	for attempt := 0; ; attempt++ {
		retryable, err := fn()
		if err == nil || !retryable {
			return err
		}
		if attempt >= m.maxRetries {
			if m.maxRetries == 0 {
				return err
			}
			return fmt.Errorf("failed after %d retries: %w", m.maxRetries, err)
		}

		m.retryCount.Add(1)

		timer := time.NewTimer(currentDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		currentDelay = time.Duration(float64(currentDelay) * m.backoff)
	}
}

// RetryCount returns the total number of retries performed.
func (m *Manager) RetryCount() int {
	return int(m.retryCount.Load())
}
