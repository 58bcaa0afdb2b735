package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/plantdoc/PlantRAG/internal/api"
	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding"
	"github.com/plantdoc/PlantRAG/internal/rag/llm"
	"github.com/plantdoc/PlantRAG/internal/rag/vectorDB"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logger_i.NewLogger("handlers").Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{Error: message})
}

func validateContext(ctx context.Context, log *logger_i.Logger) bool {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		log.With("traceId:", trace)
	}
	if ctx.Err() != nil {
		log.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		log.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func ValidateRagRequest(requestData api.RagRequest) bool {
	return strings.TrimSpace(requestData.Prompt) != ""
}

func ValidateMessagesRequest(requestData api.MessagesRequest) bool {
	if len(requestData.Messages) == 0 {
		return false
	}
	return strings.TrimSpace(requestData.Messages[len(requestData.Messages)-1]) != ""
}

// statusForError keeps upstream failures distinguishable from our own.
func statusForError(err error) int {
	switch {
	case errors.Is(err, embedding.ErrEmbedding),
		errors.Is(err, vectorDB.ErrIndex),
		errors.Is(err, llm.ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func closeBody(body io.ReadCloser, log *logger_i.Logger) {
	if err := body.Close(); err != nil {
		log.Error("Couldn't close the request body reader :", err)
	}
}
