package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sicko7947/foodcart"
)

// fakeRedisClient implements RedisClient over a map
type fakeRedisClient struct {
	data    map[string][]byte
	lastTTL time.Duration
	err     error
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{data: make(map[string][]byte)}
}

func (f *fakeRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = append([]byte(nil), value.([]byte)...)
	f.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestNewRedisStore(t *testing.T) {
	store := NewRedisStore(newFakeRedisClient())
	if store == nil {
		t.Fatal("NewRedisStore() returned nil")
	}

	var _ foodcart.BlobStore = store
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	client := newFakeRedisClient()
	store := NewRedisStore(client)
	ctx := context.Background()

	if err := store.Set(ctx, "cart", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok := client.data["foodcart:cart"]; !ok {
		t.Error("Set() did not apply the default key prefix")
	}

	blob, found, err := store.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !found || string(blob) != "[]" {
		t.Errorf("Get() = (%s, %v), want ([], true)", blob, found)
	}

	if err := store.Delete(ctx, "cart"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, found, _ := store.Get(ctx, "cart"); found {
		t.Error("key still present after Delete()")
	}
}

func TestRedisStore_GetAbsent(t *testing.T) {
	store := NewRedisStore(newFakeRedisClient())

	blob, found, err := store.Get(context.Background(), "cart")
	if err != nil {
		t.Fatalf("Get() on absent key failed: %v", err)
	}
	if found || blob != nil {
		t.Errorf("Get() = (%q, %v), want (nil, false)", blob, found)
	}
}

func TestRedisStore_Options(t *testing.T) {
	client := newFakeRedisClient()
	store := NewRedisStore(client, WithKeyPrefix("shop:"), WithExpiration(time.Hour))

	if err := store.Set(context.Background(), "currentUser", []byte(`{}`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok := client.data["shop:currentUser"]; !ok {
		t.Error("WithKeyPrefix not applied")
	}
	if client.lastTTL != time.Hour {
		t.Errorf("expiration = %v, want 1h", client.lastTTL)
	}
}

func TestRedisStore_Errors(t *testing.T) {
	client := newFakeRedisClient()
	client.err = errors.New("connection refused")
	store := NewRedisStore(client)
	ctx := context.Background()

	if _, _, err := store.Get(ctx, "cart"); err == nil {
		t.Error("Get() should have failed")
	}
	if err := store.Set(ctx, "cart", []byte(`[]`)); err == nil {
		t.Error("Set() should have failed")
	}
	if err := store.Delete(ctx, "cart"); err == nil {
		t.Error("Delete() should have failed")
	}
}
