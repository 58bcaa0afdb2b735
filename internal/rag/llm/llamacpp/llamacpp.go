package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/customHttpClient"
	"github.com/plantdoc/PlantRAG/internal/domain/chatModel"
	"github.com/plantdoc/PlantRAG/internal/rag/llm"
	"github.com/plantdoc/PlantRAG/internal/rag/prompt"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

// llmClient talks to any OpenAI-compatible chat completions server, in
// practice a local llama.cpp instance. Blocking calls go through the
// official SDK; the streaming path opens the wire itself because the frames
// have to be parsed incrementally line by line.
type llmClient struct {
	sdk     openai.Client
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  *logger_i.Logger
}

func NewClient(baseURL string, apiKey string, model string) llm.Provider {
	httpClient := customHttpClient.New()
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL + "/v1"),
		option.WithHTTPClient(httpClient),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &llmClient{
		sdk:     openai.NewClient(opts...),
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		logger:  logger_i.NewLogger("llm_llamacpp"),
	}
}

func (c *llmClient) Generate(ctx context.Context, payload prompt.Payload) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	resp, err := c.sdk.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toMessages(payload),
	})
	if err != nil {
		log.Error("Chat completion failed", "error", err)
		return "", fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", llm.ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}

type streamRequest struct {
	Stream   bool            `json:"stream"`
	Model    string          `json:"model"`
	Messages []streamMessage `json:"messages"`
}

type streamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *llmClient) GenerateStream(ctx context.Context, payload prompt.Payload, emit func(string) error) error {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	body, err := json.Marshal(buildStreamRequest(c.model, payload))
	if err != nil {
		return fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("Completion server unreachable", "error", err)
		return fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Completion server returned non-OK status", "status", resp.Status)
		return fmt.Errorf("%w: unexpected status %s", llm.ErrGeneration, resp.Status)
	}

	//cancelling ctx closes the body through the request, so a vanished
	//consumer releases the upstream connection promptly
	if err := scanStream(resp.Body, emit); err != nil {
		log.Debug("Stream ended", "reason", err)
	}
	return nil
}

func buildStreamRequest(model string, payload prompt.Payload) streamRequest {
	turns := payload.Flatten(prompt.FormatSystemRole)
	messages := make([]streamMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, streamMessage{
			Role:    wireRole(turn.Role),
			Content: turn.Text,
		})
	}
	return streamRequest{Stream: true, Model: model, Messages: messages}
}

func toMessages(payload prompt.Payload) []openai.ChatCompletionMessageParamUnion {
	turns := payload.Flatten(prompt.FormatSystemRole)
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chatModel.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Text))
		case chatModel.RoleModel:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	return messages
}

func wireRole(role chatModel.Role) string {
	switch role {
	case chatModel.RoleSystem:
		return "system"
	case chatModel.RoleModel:
		return "assistant"
	default:
		return "user"
	}
}
