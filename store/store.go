// Package store provides BlobStore implementations for the storefront.
// The BlobStore interface is defined in the parent foodcart package
// (../store_interface.go) to avoid import cycles.
//
// This package contains concrete implementations:
//   - DynamoDBStore: AWS DynamoDB backend, one item per key
//   - RedisStore: Redis backend, one string value per key
//   - MemoryStore: In-memory backend for tests and local runs
//   - RetryingStore: wraps a remote backend with retries and backoff
package store
