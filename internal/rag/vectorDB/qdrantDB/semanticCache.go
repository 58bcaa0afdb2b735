package qdrantDB

import (
	"context"
	"time"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

var semanticCacheDBName = "semantic-cache"

func initCacheCollection(ctx context.Context, holder *ClientHolder) {
	if err := holder.EnsureCollection(ctx, semanticCacheDBName); err != nil {
		holder.logger.Error("Semantic cache collection creation failed", "error", err)
	}
}

// GetCachedAnswer looks for a previously generated answer whose query
// embedding is close enough to count as the same question.
func (db *ClientHolder) GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error) {
	log := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	searchResult, err := db.qObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: semanticCacheDBName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return "", false, err
	}

	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return "", false, nil
	}

	log.Debug("Semantic cache hit", "score", searchResult[0].Score)
	return searchResult[0].Payload["answer"].GetStringValue(), true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, id string, vector []float32, answer string) error {
	log := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: semanticCacheDBName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":    answer,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		log.Error("Saving answer to semantic cache failed", "error", err)
	}
	return err
}
