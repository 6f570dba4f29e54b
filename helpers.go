package foodcart

import (
	"context"
	"encoding/json"
	"time"
)

// CalculateBackoff returns the delay before retry number attempt.
// EXPONENTIAL doubles the base delay per attempt, LINEAR multiplies it by the
// attempt, NONE waits nothing. Unknown strategies fall back to LINEAR.
// Attempt 0 is the first try and never waits.
func CalculateBackoff(baseDelayMs int, attempt int, strategy BackoffStrategy) time.Duration {
	if attempt <= 0 {
		return 0
	}

	baseDelay := time.Duration(baseDelayMs) * time.Millisecond

	switch strategy {
	case BackoffExponential:
		return baseDelay * time.Duration(1<<(attempt-1))
	case BackoffNone:
		return 0
	default:
		return baseDelay * time.Duration(attempt)
	}
}

// LoadJSON reads key from store and decodes it into T.
// found is false when the key is absent. Read failures are returned as StorageReadError
// and undecodable blobs as ParseError.
func LoadJSON[T any](ctx context.Context, store BlobStore, key string) (value T, found bool, err error) {
	var zero T
	blob, found, err := store.Get(ctx, key)
	if err != nil {
		return zero, false, StorageReadError(key, err)
	}
	if !found {
		return zero, false, nil
	}

	if err := json.Unmarshal(blob, &value); err != nil {
		return zero, true, ParseError(key, err)
	}
	return value, true, nil
}

// SaveJSON encodes value and writes it under key, returning StorageWriteError on failure.
func SaveJSON[T any](ctx context.Context, store BlobStore, key string, value T) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return StorageWriteError(key, err)
	}
	if err := store.Set(ctx, key, blob); err != nil {
		return StorageWriteError(key, err)
	}
	return nil
}

// DeleteKey removes key, returning StorageWriteError on failure.
func DeleteKey(ctx context.Context, store BlobStore, key string) error {
	if err := store.Delete(ctx, key); err != nil {
		return StorageWriteError(key, err)
	}
	return nil
}
