package gemini

import (
	"context"
	"fmt"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/domain/chatModel"
	"github.com/plantdoc/PlantRAG/internal/rag/llm"
	"github.com/plantdoc/PlantRAG/internal/rag/prompt"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewClient builds the Gemini completion backend. Constructed once at
// startup, shared across requests, released on ctx cancellation.
func NewClient(ctx context.Context, apikey string, modelName string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}

	cl := &llmClient{client: c, modelName: modelName, logger: logger}
	logger.Info("Gemini client created", "model", modelName)
	go closeClient(ctx, cl)
	return cl, nil
}

func closeClient(ctx context.Context, c *llmClient) {
	<-ctx.Done()
	c.logger.Info("Closing Gemini client")
	c.client = nil
}

func (c *llmClient) Generate(ctx context.Context, payload prompt.Payload) (string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, toContents(payload), nil)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}
	answer := result.Text()
	if answer == "" {
		return "", fmt.Errorf("%w: empty completion", llm.ErrGeneration)
	}
	return answer, nil
}

// GenerateStream iterates the SDK's response stream; each element already
// carries a ready text fragment, no frame parsing needed on this backend.
func (c *llmClient) GenerateStream(ctx context.Context, payload prompt.Payload, emit func(string) error) error {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	started := false
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.modelName, toContents(payload), nil) {
		if err != nil {
			log.Error("Gemini stream failed", "error", err)
			if started {
				//headers are committed downstream; all we can do is stop
				return nil
			}
			return fmt.Errorf("%w: %v", llm.ErrGeneration, err)
		}
		fragment := resp.Text()
		if fragment == "" {
			continue
		}
		started = true
		if err := emit(fragment); err != nil {
			log.Debug("Downstream consumer gone, ending stream", "error", err)
			return nil
		}
	}
	return nil
}

// toContents renders the payload in the embedded-system shape: Gemini's
// content list has no system role, so the instruction rides in a leading
// user turn.
func toContents(payload prompt.Payload) []*genai.Content {
	turns := payload.Flatten(prompt.FormatEmbedded)

	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		role := genai.RoleUser
		if turn.Role == chatModel.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	return contents
}
