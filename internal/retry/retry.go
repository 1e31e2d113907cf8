// Package retry provides a bounded-attempt retry combinator driven by an
// error classifier.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Config holds retry configuration.
type Config struct {
	// MaxRetries is the number of retries allowed after the first attempt.
	MaxRetries int
	// Backoff is the fixed delay between attempts. Zero means retry
	// immediately.
	Backoff time.Duration
	// OnRetry, when set, is invoked before each retry with the 1-based retry
	// number and the error that triggered it.
	OnRetry func(retry int, err error)
}

// BudgetError reports that the retry budget was exhausted.
type BudgetError struct {
	Retries int
	Err     error
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("giving up after %d retries: %v", e.Retries, e.Err)
}

func (e *BudgetError) Unwrap() error {
	return e.Err
}

// Do runs fn until it succeeds, the classifier rejects its error, or the
// retry budget is spent. Non-retriable errors are returned as-is; an
// exhausted budget is reported as a *BudgetError.
func Do(ctx context.Context, cfg Config, retriable Classifier, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, lastErr)
			}
			if cfg.Backoff > 0 {
				select {
				case <-time.After(cfg.Backoff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if retriable == nil || !retriable(err) {
			return err
		}
		lastErr = err
	}

	return &BudgetError{Retries: cfg.MaxRetries, Err: lastErr}
}
