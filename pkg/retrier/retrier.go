// Package retrier retries transient failures with exponential backoff.
package retrier

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
)

const (
	defaultMinInterval = 500 * time.Millisecond
	defaultMaxInterval = 15 * time.Second
	defaultFactor      = 2.0
	defaultMaxRetries  = 4
)

// Retrier retries a function according to a jittered exponential
// backoff schedule. Non-retryable errors can be excluded via a filter.
type Retrier struct {
	minInterval time.Duration
	maxInterval time.Duration
	factor      float64
	maxRetries  int
	retryable   func(error) bool
}

// Option configures the Retrier.
type Option func(*Retrier)

// WithMinInterval sets the first retry interval.
func WithMinInterval(d time.Duration) Option {
	return func(r *Retrier) {
		r.minInterval = d
	}
}

// WithMaxInterval caps the retry interval.
func WithMaxInterval(d time.Duration) Option {
	return func(r *Retrier) {
		r.maxInterval = d
	}
}

// WithFactor sets the backoff multiplier.
func WithFactor(f float64) Option {
	return func(r *Retrier) {
		r.factor = f
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(r *Retrier) {
		r.maxRetries = n
	}
}

// WithRetryableFunc restricts retries to errors the filter accepts.
// Errors it rejects are returned immediately.
func WithRetryableFunc(fn func(error) bool) Option {
	return func(r *Retrier) {
		r.retryable = fn
	}
}

// New creates a Retrier with default values and optional overrides.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		minInterval: defaultMinInterval,
		maxInterval: defaultMaxInterval,
		factor:      defaultFactor,
		maxRetries:  defaultMaxRetries,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Do executes fn until it succeeds, the retry budget is spent, a
// non-retryable error occurs, or ctx is cancelled.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	schedule := &backoff.Backoff{
		Min:    r.minInterval,
		Max:    r.maxInterval,
		Factor: r.factor,
		Jitter: true,
	}

	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(schedule.Duration()):
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if r.retryable != nil && !r.retryable(err) {
			return err
		}
	}

	return err
}

// DoWithData executes fn with retries and returns its value.
func DoWithData[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
