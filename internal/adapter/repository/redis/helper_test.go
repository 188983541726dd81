package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestStore returns an IdempotencyStore backed by an in-process redis.
// Both are shut down when the test ends.
func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewIdempotencyStore(client), mr
}

// storedValue reads the raw value kept for an idempotency key, failing the
// test when the key is not under the store prefix.
func storedValue(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()

	val, err := mr.Get(keyPrefix + key)
	if err != nil {
		t.Fatalf("key %q not stored under %q: %v", key, keyPrefix, err)
	}
	return val
}
