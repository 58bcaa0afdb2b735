package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plantdoc/PlantRAG/internal/metrics"
	"github.com/plantdoc/PlantRAG/internal/rag/prompt"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

// placeholderContext is the diagnostic string the generation step receives
// when retrieval failed and the service is configured to fail open.
func placeholderContext(err error) string {
	return fmt.Sprintf("Error retrieving context: %s", err)
}

func (s *service) executeEmbeddingStep(ctx context.Context, query string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, query)
}

func (s *service) executeCacheCheckStep(ctx context.Context, queryVec []float32) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found, _ := s.vectorDB.GetCachedAnswer(ctx, queryVec)
	return answer, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, queryVec []float32, k int, category string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, _, err := s.vectorDB.Search(ctx, queryVec, k, category)
	if err != nil {
		return "", err
	}
	return strings.Join(matches, "\n"), nil
}

func (s *service) executeLLMStep(ctx context.Context, payload prompt.Payload) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, payload)
}

// assemble joins the caller history with the current prompt as the final
// user turn, then builds the generation payload around the context string.
func (s *service) assemble(req AnswerRequest, contextData string) prompt.Payload {
	fullHistory := append(append([]string{}, req.History...), req.Prompt)
	return prompt.Assemble(fullHistory, contextData)
}

// generateBlocking runs the LLM step and caches the result. degraded marks
// answers produced from a placeholder context after a retrieval failure;
// those must never reach either cache, or a transient outage keeps serving
// context-free answers long after recovery.
func (s *service) generateBlocking(ctx context.Context, log *logger_i.Logger, req AnswerRequest, contextData string, queryVec []float32, degraded bool) (string, error) {
	answer, err := s.executeLLMStep(ctx, s.assemble(req, contextData))
	if err != nil {
		log.Error("LLM generation failed", "error", err)
		return "", err
	}
	if degraded {
		return answer, nil
	}

	s.answerCache.Put(ctx, req.Category, req.Prompt, answer)
	if queryVec != nil {
		//background save; the request does not wait on the cache
		go func() {
			saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.vectorDB.SaveToCache(saveCtx, uuid.New().String(), queryVec, answer); err != nil {
				s.logger.Error("Failed to save to semantic cache", "error", err)
			}
		}()
	}
	return answer, nil
}

func (s *service) generateStreaming(ctx context.Context, req AnswerRequest, contextData string, emit func(string) error) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.GenerateStream(ctx, s.assemble(req, contextData), func(fragment string) error {
		metrics.IncrementStreamFragments()
		return emit(fragment)
	})
}
