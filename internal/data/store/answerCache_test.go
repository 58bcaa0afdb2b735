package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/plantdoc/PlantRAG/internal/data/redisStore"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*AnswerCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewAnswerCache(redisStore.NewTestStore(client)), mr
}

func TestAnswerCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, found := cache.Get(ctx, "blight", "What is blight?"); found {
		t.Fatal("expected cold cache miss")
	}

	cache.Put(ctx, "blight", "What is blight?", "Blight is a fungal disease.")

	got, found := cache.Get(ctx, "blight", "What is blight?")
	if !found {
		t.Fatal("expected cache hit after put")
	}
	if got != "Blight is a fungal disease." {
		t.Errorf("got %q", got)
	}
}

func TestAnswerCache_KeyIncludesCategory(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Put(ctx, "blight", "symptoms?", "blight answer")

	if _, found := cache.Get(ctx, "rust", "symptoms?"); found {
		t.Error("same prompt under a different category must not hit")
	}
}

func TestAnswerCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Put(ctx, "blight", "q", "a")
	mr.FastForward(25 * time.Hour)

	if _, found := cache.Get(ctx, "blight", "q"); found {
		t.Error("expected entry to expire after TTL")
	}
}

func TestAnswerCache_NilCacheIsNoop(t *testing.T) {
	var cache *AnswerCache
	ctx := context.Background()

	cache.Put(ctx, "c", "q", "a")
	if _, found := cache.Get(ctx, "c", "q"); found {
		t.Error("nil cache must report a miss")
	}
}
