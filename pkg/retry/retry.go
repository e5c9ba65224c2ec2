// Package retry implements a small bounded retry policy for network
// calls: a fixed number of attempts with a fixed backoff between them.
package retry

import (
	"context"
	"time"
)

// Policy describes how often and how quickly an operation is retried.
type Policy struct {
	MaxAttempts int           // Total attempts, including the first (minimum 1)
	Backoff     time.Duration // Fixed delay between attempts
}

// Do runs fn until it succeeds, the attempts are exhausted, or ctx is
// done. The last error is returned when all attempts fail.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff):
		}
	}
	return lastErr
}
