package testutil

import (
	"testing"

	"creditjack/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// OpenRedisStore starts an in-process redis and returns a store backed by it.
func OpenRedisStore(t *testing.T) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	st := store.NewRedis(client)
	t.Cleanup(func() {
		st.Close()
		mr.Close()
	})
	return st, mr
}
