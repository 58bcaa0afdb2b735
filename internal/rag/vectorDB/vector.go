package vectorDB

import (
	"context"
	"errors"

	"github.com/plantdoc/PlantRAG/internal/domain/commonModels"
)

// ErrIndex marks an unreachable vector store or a malformed query.
var ErrIndex = errors.New("vector index failure")

// DataProcessor is the opaque nearest-neighbor store. Search returns chunk
// texts and similarity scores ranked highest first, at most k; a non-empty
// category restricts hits to that disease class. UpsertBatch is idempotent
// by chunk id.
type DataProcessor interface {
	Search(ctx context.Context, vector []float32, k int, category string) ([]string, []float32, error)
	EnsureCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error

	GetCachedAnswer(ctx context.Context, queryVector []float32) (string, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, answer string) error
}
