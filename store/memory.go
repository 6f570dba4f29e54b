package store

import (
	"context"
	"sync"

	"github.com/sicko7947/foodcart"
)

// MemoryStore implements foodcart.BlobStore using in-memory storage
type MemoryStore struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryStore creates a new in-memory blob store
func NewMemoryStore() foodcart.BlobStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, exists := s.blobs[key]
	if !exists {
		return nil, false, nil
	}

	// Copy bytes
	blobCopy := make([]byte, len(blob))
	copy(blobCopy, blob)
	return blobCopy, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy bytes
	blobCopy := make([]byte, len(blob))
	copy(blobCopy, blob)
	s.blobs[key] = blobCopy

	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Keys returns every stored key. Order is unspecified.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	return keys
}
