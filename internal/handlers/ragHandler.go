package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/plantdoc/PlantRAG/internal/api"
	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/rag"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

type RagHandler struct {
	service rag.Service
	logger  *logger_i.Logger
}

func NewRagHandler(service rag.Service) *RagHandler {
	return &RagHandler{
		service: service,
		logger:  logger_i.NewLogger("ragHandler"),
	}
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// DirectHandler godoc
// @Summary      Answer a category-scoped question
// @Description  Embeds the prompt, retrieves matching knowledge chunks for the category, and returns a single generated answer.
// @Tags         RAG
// @Accept       json
// @Produce      json
// @Param        request  body      api.RagRequest   true  "Category, prompt and optional history"
// @Success      200      {object}  api.RAGResponse  "Generated answer"
// @Failure      400      {object}  api.ErrorResponse "Invalid request data"
// @Failure      502      {object}  api.ErrorResponse "Upstream retrieval or generation failure"
// @Router       /rag/direct [post]
func (h *RagHandler) DirectHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		h.logger.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	requestData, ok := h.decodeRagRequest(w, r)
	if !ok {
		return
	}

	answer, err := h.service.Answer(r.Context(), rag.AnswerRequest{
		Category: requestData.ClassName,
		Prompt:   requestData.Prompt,
		History:  requestData.History,
	})
	if err != nil {
		h.logger.Error("Answer failed", "error", err, "category", requestData.ClassName)
		WriteErrorResponse(w, statusForError(err), "Could not generate an answer")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.RAGResponse{Response: answer})
}

// DirectStreamHandler godoc
// @Summary      Stream a category-scoped answer
// @Description  Same retrieval flow as /rag/direct but streams the answer as plain text fragments.
// @Tags         RAG
// @Accept       json
// @Produce      plain
// @Param        request  body  api.RagRequest  true  "Category, prompt and optional history"
// @Success      200  {string}  string  "Answer fragments"
// @Failure      400  {object}  api.ErrorResponse "Invalid request data"
// @Router       /rag/stream [post]
func (h *RagHandler) DirectStreamHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		h.logger.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	requestData, ok := h.decodeRagRequest(w, r)
	if !ok {
		return
	}

	h.streamAnswer(w, r, rag.AnswerRequest{
		Category: requestData.ClassName,
		Prompt:   requestData.Prompt,
		History:  requestData.History,
	})
}

// ConversationHandler godoc
// @Summary      Answer from a raw conversation transcript
// @Description  Treats the last message as the live question and the rest as alternating history. No category filter is applied.
// @Tags         RAG
// @Accept       json
// @Produce      json
// @Param        request  body      api.MessagesRequest  true  "Conversation messages, last one is the question"
// @Success      200      {object}  api.RAGResponse      "Generated answer"
// @Failure      400      {object}  api.ErrorResponse    "Invalid request data"
// @Failure      502      {object}  api.ErrorResponse    "Upstream retrieval or generation failure"
// @Router       /rag [post]
func (h *RagHandler) ConversationHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		h.logger.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	requestData, ok := h.decodeMessagesRequest(w, r)
	if !ok {
		return
	}

	answer, err := h.service.Answer(r.Context(), toConversationRequest(requestData))
	if err != nil {
		h.logger.Error("Conversation answer failed", "error", err)
		WriteErrorResponse(w, statusForError(err), "Could not generate an answer")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.RAGResponse{Response: answer})
}

// ConversationStreamHandler godoc
// @Summary      Stream an answer from a raw conversation transcript
// @Description  Same flow as /rag but streams the answer as plain text fragments.
// @Tags         RAG
// @Accept       json
// @Produce      plain
// @Param        request  body  api.MessagesRequest  true  "Conversation messages, last one is the question"
// @Success      200  {string}  string  "Answer fragments"
// @Failure      400  {object}  api.ErrorResponse "Invalid request data"
// @Router       /stream [post]
func (h *RagHandler) ConversationStreamHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context(), h.logger) {
		h.logger.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	requestData, ok := h.decodeMessagesRequest(w, r)
	if !ok {
		return
	}

	h.streamAnswer(w, r, toConversationRequest(requestData))
}

func (h *RagHandler) streamAnswer(w http.ResponseWriter, r *http.Request, req rag.AnswerRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("Response writer does not support streaming")
		WriteErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	started := false
	err := h.service.AnswerStream(r.Context(), req, func(fragment string) error {
		if _, writeErr := io.WriteString(w, fragment); writeErr != nil {
			return writeErr
		}
		started = true
		flusher.Flush()
		return nil
	})
	if err != nil {
		h.logger.Error("Answer stream failed", "error", err, "started", started)
		if !started {
			WriteErrorResponse(w, statusForError(err), "Could not generate an answer")
		}
		//once fragments are out the status line is gone, nothing left to signal
	}
}

func (h *RagHandler) decodeRagRequest(w http.ResponseWriter, r *http.Request) (api.RagRequest, bool) {
	var requestData api.RagRequest
	defer closeBody(r.Body, h.logger)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || !ValidateRagRequest(requestData) {
		h.logger.Warn("Bad RAG Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return api.RagRequest{}, false
	}
	return requestData, true
}

func (h *RagHandler) decodeMessagesRequest(w http.ResponseWriter, r *http.Request) (api.MessagesRequest, bool) {
	var requestData api.MessagesRequest
	defer closeBody(r.Body, h.logger)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || !ValidateMessagesRequest(requestData) {
		h.logger.Warn("Bad Messages Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return api.MessagesRequest{}, false
	}
	return requestData, true
}

// toConversationRequest splits a transcript into the live prompt and its
// history. Transcript endpoints carry no category, so retrieval runs
// unfiltered with a smaller K.
func toConversationRequest(requestData api.MessagesRequest) rag.AnswerRequest {
	last := len(requestData.Messages) - 1
	return rag.AnswerRequest{
		Prompt:  requestData.Messages[last],
		History: requestData.Messages[:last],
		K:       config.HistoryOnlyTopK,
	}
}
