package transport

import (
	"context"
	"time"

	"github.com/gonspd/gonspd/internal/metrics"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	// MaxAttempts bounds the total number of calls, first attempt included.
	MaxAttempts int
	// Backoff is the constant delay between attempts. The portal applies a
	// fixed per-second quota rather than a capacity signal, so exponential
	// growth buys nothing here.
	Backoff time.Duration
	// RetryOnBlocked additionally retries HTTP 403 responses. Meant for
	// rotating-proxy deployments where a block is bound to one exit IP.
	RetryOnBlocked bool
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 10,
	Backoff:     1 * time.Second,
}

// Retrier wraps an Executor with a bounded retry loop driven by failure
// classification. Transient, rate-limit and 5xx failures are retried;
// client errors, fatal errors and the region-too-large signal surface
// immediately. On budget exhaustion the last concrete failure is returned,
// never a synthetic "gave up" error.
type Retrier struct {
	next Executor
	cfg  RetryConfig
}

// NewRetrier wraps next with the given retry policy.
func NewRetrier(next Executor, cfg RetryConfig) *Retrier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRetryConfig.MaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultRetryConfig.Backoff
	}
	return &Retrier{next: next, cfg: cfg}
}

// Execute runs the request until success, a non-retryable failure, or
// budget exhaustion.
func (r *Retrier) Execute(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		resp, err := r.next.Execute(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		class, ok := ClassOf(err)
		if !ok {
			// Unclassified errors include context cancellation; never retry.
			return nil, err
		}
		switch class {
		case Transient, RateLimited, ServerError:
		case AccessBlocked:
			if !r.cfg.RetryOnBlocked {
				return nil, err
			}
		default:
			return nil, err
		}

		if attempt == r.cfg.MaxAttempts {
			break
		}
		metrics.RetriesTotal.Inc()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.cfg.Backoff):
		}
	}
	return nil, lastErr
}
