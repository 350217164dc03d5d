package provider

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dmirandah/accionpro/internal/types"
)

const (
	retryMaxAttempts = 3
	retryInitialWait = 2 * time.Second
	retryMaxWait     = 8 * time.Second
)

// RetryProvider decorates a Provider with the standard fetch retry policy:
// three attempts with the wait doubling from two seconds and capped at
// eight. A no-data result is an error like any other here, so thin upstream
// responses get their extra chances too; after the last attempt the last
// error surfaces unchanged and stays distinguishable.
type RetryProvider struct {
	inner       Provider
	maxAttempts int
	initialWait time.Duration
	maxWait     time.Duration
}

// NewRetryProvider wraps the provider with the default policy.
func NewRetryProvider(inner Provider) *RetryProvider {
	return NewRetryProviderWithPolicy(inner, retryMaxAttempts, retryInitialWait, retryMaxWait)
}

// NewRetryProviderWithPolicy wraps the provider with a custom policy. Tests
// use millisecond waits.
func NewRetryProviderWithPolicy(inner Provider, maxAttempts int, initialWait, maxWait time.Duration) *RetryProvider {
	return &RetryProvider{
		inner:       inner,
		maxAttempts: maxAttempts,
		initialWait: initialWait,
		maxWait:     maxWait,
	}
}

func (r *RetryProvider) Name() string {
	return r.inner.Name()
}

func (r *RetryProvider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	var candles []types.Candle

	operation := func() error {
		var err error
		candles, err = r.inner.FetchDaily(ctx, symbol, start, end)

		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialWait
	policy.Multiplier = 2
	policy.MaxInterval = r.maxWait
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	// WithMaxRetries counts retries after the first attempt.
	wrapped := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)

	if err := backoff.Retry(operation, wrapped); err != nil {
		return nil, err
	}

	return candles, nil
}
