package qdrantDB

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/domain/commonModels"
	"github.com/plantdoc/PlantRAG/internal/rag/vectorDB"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	qObj   *qdrant.Client
	logger *logger_i.Logger
}

// NewClient connects to Qdrant and makes sure the knowledge collection
// exists. The handle is long-lived and shared across requests; it closes
// when ctx is cancelled.
func NewClient(ctx context.Context, host string, port int) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate Qdrant client", "error", err)
		return nil, fmt.Errorf("%w: %v", vectorDB.ErrIndex, err)
	}

	holder := &ClientHolder{qObj: client, logger: logger}

	if err := holder.EnsureCollection(ctx, config.KnowledgeCollection); err != nil {
		logger.Error("could not create collection", "collectionName", config.KnowledgeCollection, "error", err)
		return nil, err
	}
	initCacheCollection(ctx, holder)

	go closeQdrant(ctx, holder)
	return holder, nil
}

func closeQdrant(ctx context.Context, holder *ClientHolder) {
	<-ctx.Done()
	holder.logger.Info("Shutting down Qdrant")
	if err := holder.qObj.Close(); err != nil {
		holder.logger.Error("could not close Qdrant", "error", err)
	}
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, k int, category string) ([]string, []float32, error) {
	log := db.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	query := &qdrant.QueryPoints{
		CollectionName: config.KnowledgeCollection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if category != "" {
		query.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("category", category)},
		}
	}

	result, err := db.qObj.Query(ctx, query)
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, nil, fmt.Errorf("%w: %v", vectorDB.ErrIndex, err)
	}

	var matches []string
	var scores []float32
	for _, hit := range result {
		matches = append(matches, hit.Payload["content"].GetStringValue())
		scores = append(scores, hit.Score)
	}

	log.Debug("Vector search done", "category", category, "hits", len(matches))
	return matches, scores, nil
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return fmt.Errorf("%w: empty collection name", vectorDB.ErrIndex)
	}

	exists, err := db.qObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorDB.ErrIndex, err)
	}
	if exists {
		return nil
	}

	err = db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", vectorDB.ErrIndex, err)
	}
	return nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: mismatch: got %d chunks but %d vectors", vectorDB.ErrIndex, len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			//point id is derived from the chunk id, so re-ingesting an
			//unchanged corpus overwrites in place instead of duplicating
			Id:      qdrant.NewID(pointID(chunk.ChunkId)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":     chunk.Chunk,
				"category":    chunk.Category,
				"chunk_id":    chunk.ChunkId,
				"doc_name":    chunk.Doc.Name,
				"ingested_at": chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: upsert failed: %v", vectorDB.ErrIndex, err)
	}
	return nil
}

func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}
