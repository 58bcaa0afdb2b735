package redisStore

import (
	"context"
	"time"

	"github.com/plantdoc/PlantRAG/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	logger *logger_i.Logger
}

// NewStore connects to Redis and verifies it with a short ping. A nil
// return means Redis is offline; callers degrade to uncached operation.
func NewStore(ctx context.Context, addr string, password string, db int) *Store {
	logger := logger_i.NewLogger("Redis Store")

	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "error", err.Error())
		return nil
	}

	store := &Store{client: client, logger: logger}
	go store.closeOnDone(ctx)
	logger.Info("Redis store init successfully", "addr", addr)
	return store
}

func (s *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	s.logger.Info("Closing Redis store")
	if err := s.client.Close(); err != nil {
		s.logger.Error("Error closing redis client", "error", err)
	}
}

// NewTestStore wraps an externally supplied client, for tests.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("Redis Store (test)"),
	}
}
