package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sicko7947/foodcart"
)

// RetryingStore retries failed calls on the wrapped store with backoff.
// Every BlobStore call is a whole-value read, overwrite or delete, so
// repeating one is safe.
type RetryingStore struct {
	next   foodcart.BlobStore
	config foodcart.RetryConfig
	logger zerolog.Logger
}

// NewRetryingStore wraps next with retries
func NewRetryingStore(next foodcart.BlobStore, config foodcart.RetryConfig, logger zerolog.Logger) foodcart.BlobStore {
	return &RetryingStore{
		next:   next,
		config: config,
		logger: foodcart.ComponentLogger(logger, "store"),
	}
}

// Get implements foodcart.BlobStore
func (s *RetryingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	var found bool
	err := s.do(ctx, "get", key, func(ctx context.Context) error {
		var err error
		blob, found, err = s.next.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return blob, found, nil
}

// Set implements foodcart.BlobStore
func (s *RetryingStore) Set(ctx context.Context, key string, blob []byte) error {
	return s.do(ctx, "set", key, func(ctx context.Context) error {
		return s.next.Set(ctx, key, blob)
	})
}

// Delete implements foodcart.BlobStore
func (s *RetryingStore) Delete(ctx context.Context, key string) error {
	return s.do(ctx, "delete", key, func(ctx context.Context) error {
		return s.next.Delete(ctx, key)
	})
}

func (s *RetryingStore) do(ctx context.Context, operation, key string, call func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := foodcart.CalculateBackoff(s.config.RetryDelayMs, attempt, s.config.RetryBackoff)
			foodcart.LogStorageRetry(s.logger, key, operation, attempt, delay, lastErr)

			if delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return lastErr
				case <-timer.C:
				}
			}
		}

		attemptCtx := ctx
		cancel := func() {}
		if s.config.TimeoutSeconds > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, time.Duration(s.config.TimeoutSeconds)*time.Second)
		}

		lastErr = call(attemptCtx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}

	return lastErr
}
