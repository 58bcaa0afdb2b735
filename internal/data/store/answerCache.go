package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/data/redisStore"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

// AnswerCache is an exact-match cache over (category, prompt) pairs with a
// TTL. A cold or offline cache is never an error; callers fall through to
// the full pipeline.
type AnswerCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewAnswerCache(store *redisStore.Store) *AnswerCache {
	if store == nil {
		return nil
	}
	return &AnswerCache{
		store:  store,
		logger: logger_i.NewLogger("AnswerCache"),
	}
}

func (c *AnswerCache) Get(ctx context.Context, category string, prompt string) (string, bool) {
	if c == nil {
		return "", false
	}
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	val, err := c.store.Get(ctx, cacheKey(category, prompt))
	if c.store.IsNil(err) {
		return "", false
	}
	if err != nil {
		log.Error("Answer cache read failed", "error", err)
		return "", false
	}
	log.Debug("Answer cache hit")
	return val, true
}

func (c *AnswerCache) Put(ctx context.Context, category string, prompt string, answer string) {
	if c == nil || answer == "" {
		return
	}
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if err := c.store.Set(ctx, cacheKey(category, prompt), answer, config.RedisAnswerCacheTTL); err != nil {
		log.Error("Answer cache write failed", "error", err)
	}
}

func cacheKey(category string, prompt string) string {
	sum := sha256.Sum256([]byte(category + "\x00" + prompt))
	return "answer:" + hex.EncodeToString(sum[:])
}
