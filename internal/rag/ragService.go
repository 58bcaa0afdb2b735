package rag

import (
	"context"
	"time"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/data/store"
	"github.com/plantdoc/PlantRAG/internal/metrics"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding"
	"github.com/plantdoc/PlantRAG/internal/rag/llm"
	"github.com/plantdoc/PlantRAG/internal/rag/vectorDB"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

// AnswerRequest is one question against the knowledge base. Category scopes
// retrieval to a single disease class; empty means unscoped. History is the
// caller's flat alternating conversation, Prompt the current user question.
type AnswerRequest struct {
	Category string
	Prompt   string
	History  []string
	K        int
}

// Service is the public contract the handlers consume; it hides the
// embedder, the vector index and the completion backend behind one surface.
type Service interface {
	Answer(ctx context.Context, req AnswerRequest) (string, error)
	AnswerStream(ctx context.Context, req AnswerRequest, emit func(fragment string) error) error
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	answerCache *store.AnswerCache
	failOpen    bool
	logger      *logger_i.Logger
}

// NewService wires the pipeline. failOpen keeps serving with a diagnostic
// placeholder context when retrieval fails instead of failing the request.
func NewService(vector vectorDB.DataProcessor, provider llm.Provider, em embedding.Embedder, cache *store.AnswerCache, failOpen bool) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: provider,
		embedder:    em,
		answerCache: cache,
		failOpen:    failOpen,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Answer(ctx context.Context, req AnswerRequest) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureAnswerMetrics("direct", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	if cached, found := s.answerCache.Get(ctx, req.Category, req.Prompt); found {
		return cached, nil
	}

	queryVec, err := s.executeEmbeddingStep(ctx, req.Prompt)
	if err != nil {
		log.Error("Query embedding failed", "error", err)
		if !s.failOpen {
			return "", err
		}
		return s.generateBlocking(ctx, log, req, placeholderContext(err), nil, true)
	}

	if cached, found := s.executeCacheCheckStep(ctx, queryVec); found {
		return cached, nil
	}

	contextData, err := s.executeVectorSearchStep(ctx, queryVec, topK(req), req.Category)
	if err != nil {
		log.Error("Vector search failed", "error", err)
		if !s.failOpen {
			return "", err
		}
		return s.generateBlocking(ctx, log, req, placeholderContext(err), queryVec, true)
	}

	return s.generateBlocking(ctx, log, req, contextData, queryVec, false)
}

func (s *service) AnswerStream(ctx context.Context, req AnswerRequest, emit func(string) error) error {
	start := time.Now()
	defer func() { metrics.CaptureAnswerMetrics("stream", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	queryVec, err := s.executeEmbeddingStep(ctx, req.Prompt)
	if err != nil {
		log.Error("Query embedding failed", "error", err)
		if !s.failOpen {
			return err
		}
		return s.generateStreaming(ctx, req, placeholderContext(err), emit)
	}

	if cached, found := s.executeCacheCheckStep(ctx, queryVec); found {
		return emit(cached)
	}

	contextData, err := s.executeVectorSearchStep(ctx, queryVec, topK(req), req.Category)
	if err != nil {
		log.Error("Vector search failed", "error", err)
		if !s.failOpen {
			return err
		}
		contextData = placeholderContext(err)
	}

	return s.generateStreaming(ctx, req, contextData, emit)
}

func topK(req AnswerRequest) int {
	if req.K > 0 {
		return req.K
	}
	return config.DefaultTopK
}
