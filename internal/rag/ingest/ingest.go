package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/domain/commonModels"
	"github.com/plantdoc/PlantRAG/internal/metrics"
	"github.com/plantdoc/PlantRAG/internal/rag/chunker"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding"
	"github.com/plantdoc/PlantRAG/internal/rag/vectorDB"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

// Pipeline populates the vector index from a corpus directory. It runs to
// completion once, offline; it is not safe to run concurrently with another
// writer.
type Pipeline struct {
	embedder embedding.Embedder
	vectorDB vectorDB.DataProcessor
	strategy chunker.Strategy
	logger   *logger_i.Logger
}

func NewPipeline(em embedding.Embedder, vdb vectorDB.DataProcessor, strategy chunker.Strategy) *Pipeline {
	return &Pipeline{
		embedder: em,
		vectorDB: vdb,
		strategy: strategy,
		logger:   logger_i.NewLogger("Ingestion"),
	}
}

// Run scans corpusDir (non-recursive) and ingests every supported document.
// One bad document is logged and skipped; it never aborts the rest of the
// corpus.
func (p *Pipeline) Run(ctx context.Context, corpusDir string) error {
	if err := p.vectorDB.EnsureCollection(ctx, config.KnowledgeCollection); err != nil {
		return fmt.Errorf("ingest: ensuring collection: %w", err)
	}

	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return fmt.Errorf("ingest: reading corpus dir %s: %w", corpusDir, err)
	}

	processed, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if docType(entry.Name()) == commonModels.ERR {
			continue
		}

		path := filepath.Join(corpusDir, entry.Name())
		if err := p.ingestDocument(ctx, path); err != nil {
			p.logger.Error("Document ingestion failed, continuing", "file", entry.Name(), "error", err)
			failed++
			continue
		}
		processed++
	}

	p.logger.Info("Corpus ingestion finished", "processed", processed, "failed", failed)
	return nil
}

func (p *Pipeline) ingestDocument(ctx context.Context, path string) error {
	name := filepath.Base(path)
	category := CategoryFromFilename(name)
	log := p.logger.With("file", name, "category", category)

	content, err := extractText(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		log.Debug("Skipping empty document")
		return nil
	}

	doc := commonModels.Document{
		Name:                name,
		Category:            category,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType(name),
	}
	chunks := PrepareChunks(doc, chunker.Chunk(p.strategy, content, config.MaxChunkLen))

	log.Debug("Chunked document", "chunks", len(chunks))
	if err := p.batchIngest(ctx, chunks); err != nil {
		return err
	}

	metrics.CountIngestedChunks(category, len(chunks))
	log.Info("Ingested document", "chunks", len(chunks))
	return nil
}

// PrepareChunks assigns sequential deterministic ids "{category}_{i}" so a
// re-run upserts the same points.
func PrepareChunks(doc commonModels.Document, texts []string) []commonModels.DocChunk {
	chunks := make([]commonModels.DocChunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, commonModels.DocChunk{
			Doc:      doc,
			ChunkId:  fmt.Sprintf("%s_%d", doc.Category, i),
			Chunk:    text,
			Category: doc.Category,
			Ordinal:  i,
		})
	}
	return chunks
}

func (p *Pipeline) batchIngest(ctx context.Context, chunks []commonModels.DocChunk) error {
	batchSize := config.IngestEmbedBatchSize

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		currentBatch := chunks[i:end]

		texts := make([]string, 0, len(currentBatch))
		for _, c := range currentBatch {
			texts = append(texts, c.Chunk)
		}

		vectors, err := p.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		if err := p.vectorDB.UpsertBatch(ctx, config.KnowledgeCollection, currentBatch, vectors); err != nil {
			return fmt.Errorf("upserting batch failed: %w", err)
		}
	}
	return nil
}

// CategoryFromFilename derives the disease class from a corpus filename:
// the extension goes, then the fixed-length ordering prefix the corpus
// files carry (e.g. "01_blight.txt" -> "blight").
func CategoryFromFilename(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if len(stem) > config.CategoryPrefixLen {
		return stem[config.CategoryPrefixLen:]
	}
	return stem
}
