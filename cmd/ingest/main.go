package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/rag/chunker"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding/googleEmbedding"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding/llamaEmbedding"
	"github.com/plantdoc/PlantRAG/internal/rag/ingest"
	"github.com/plantdoc/PlantRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

func main() {

	_ = godotenv.Load()

	logger_i.Init()
	logger := logger_i.NewLogger("ingest")

	settings, err := config.LoadSettings()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var corpusDir string
	flag.StringVar(&corpusDir, "corpus-dir", settings.CorpusDir, "directory of knowledge documents")
	flag.Parse()

	ctx, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB, err := qdrantDB.NewClient(ctx, settings.QdrantHost, settings.QdrantPort)
	if err != nil {
		logger.Error("Qdrant failed to initialize", "error", err)
		os.Exit(1)
	}

	embeddingService, err := buildEmbedder(ctx, settings)
	if err != nil {
		logger.Error("Embedding service failed to initialize", "error", err)
		os.Exit(1)
	}

	if settings.MakeWorldAccessible {
		if err := ingest.MakeWorldAccessible(corpusDir); err != nil {
			logger.Warn("Could not loosen corpus permissions", "error", err)
		}
	}

	pipeline := ingest.NewPipeline(embeddingService, vectorDB, chunker.Strategy(settings.ChunkStrategy))
	if err := pipeline.Run(ctx, corpusDir); err != nil {
		logger.Error("Ingestion failed", "error", err, "corpusDir", corpusDir)
		os.Exit(1)
	}

	logger.Info("Ingestion complete", "corpusDir", corpusDir)
}

func buildEmbedder(ctx context.Context, settings *config.Settings) (embedding.Embedder, error) {
	if settings.EmbedderBackend == "llamacpp" {
		return llamaEmbedding.NewClient(settings.LlamaBaseURL), nil
	}
	return googleEmbedding.NewClient(ctx, config.GoogleEmbeddingModel, settings.GoogleAPIKey)
}
