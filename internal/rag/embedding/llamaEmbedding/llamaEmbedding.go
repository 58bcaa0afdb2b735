package llamaEmbedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/customHttpClient"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding"
	"github.com/plantdoc/PlantRAG/pkg/logger_i"
)

type client struct {
	baseURL string
	http    *http.Client
	logger  *logger_i.Logger
}

type embedRequest struct {
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewClient builds an embedder backed by a local llama.cpp model server's
// /embeddings endpoint. The server takes one text per request, so batches
// are issued sequentially.
func NewClient(baseURL string) embedding.Embedder {
	return &client{
		baseURL: baseURL,
		http:    customHttpClient.New(),
		logger:  logger_i.NewLogger("llama_embedding"),
	}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, config.EmbeddingTimeout)
	defer cancel()
	return c.embedOne(ctx, query)
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := c.GetEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func (c *client) embedOne(ctx context.Context, text string) ([]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	body, err := json.Marshal(embedRequest{Input: text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbedding, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("Embedding server unreachable", "error", err)
		return nil, fmt.Errorf("%w: %v", embedding.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Embedding server returned non-OK status", "status", resp.Status)
		return nil, fmt.Errorf("%w: unexpected status %s", embedding.ErrEmbedding, resp.Status)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", embedding.ErrEmbedding, err)
	}
	if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", embedding.ErrEmbedding)
	}
	return decoded.Data[0].Embedding, nil
}
