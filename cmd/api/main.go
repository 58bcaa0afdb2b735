package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/data/redisStore"
	"github.com/plantdoc/PlantRAG/internal/data/store"
	"github.com/plantdoc/PlantRAG/internal/handlers"
	"github.com/plantdoc/PlantRAG/internal/rag"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding/googleEmbedding"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding/llamaEmbedding"
	"github.com/plantdoc/PlantRAG/internal/rag/llm"
	"github.com/plantdoc/PlantRAG/internal/rag/llm/gemini"
	"github.com/plantdoc/PlantRAG/internal/rag/llm/llamacpp"
	"github.com/plantdoc/PlantRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/plantdoc/PlantRAG/internal/server"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

var listenAddr string

func main() {

	//missing .env is fine, the environment may carry everything already
	_ = godotenv.Load()

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	settings, err := config.LoadSettings()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	flag.StringVar(&listenAddr, "listen-addr", settings.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB, err := qdrantDB.NewClient(serviceContext, settings.QdrantHost, settings.QdrantPort)
	if err != nil {
		logger.Error("Qdrant failed to initialize. Shutting down.", "error", err)
		return
	}

	embeddingService, err := buildEmbedder(serviceContext, settings)
	if err != nil {
		logger.Error("Embedding service failed to initialize. Shutting down.", "error", err)
		return
	}

	llmProvider, err := buildLLMProvider(serviceContext, settings)
	if err != nil {
		logger.Error("LLM provider failed to initialize. Shutting down.", "error", err)
		return
	}

	//a missing redis only costs the answer cache
	answerCache := store.NewAnswerCache(
		redisStore.NewStore(serviceContext, settings.RedisAddr, settings.RedisPassword, config.RedisAnswerCacheDB))
	if answerCache == nil {
		logger.Warn("Redis is offline, answer caching disabled")
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, answerCache, settings.FailOpen)
	ragHandler := handlers.NewRagHandler(ragService)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, ragHandler)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildEmbedder(ctx context.Context, settings *config.Settings) (embedding.Embedder, error) {
	if settings.EmbedderBackend == "llamacpp" {
		return llamaEmbedding.NewClient(settings.LlamaBaseURL), nil
	}
	return googleEmbedding.NewClient(ctx, config.GoogleEmbeddingModel, settings.GoogleAPIKey)
}

func buildLLMProvider(ctx context.Context, settings *config.Settings) (llm.Provider, error) {
	if settings.LLMBackend == "llamacpp" {
		return llamacpp.NewClient(settings.LlamaBaseURL, settings.LlamaAPIKey, settings.LlamaModel), nil
	}
	return gemini.NewClient(ctx, settings.GoogleAPIKey, config.GeminiModelName)
}
