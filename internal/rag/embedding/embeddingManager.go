package embedding

import (
	"context"
	"errors"
)

// ErrEmbedding marks a backend that is unreachable or returned a malformed
// or empty reply. Callers must not substitute a zero vector.
var ErrEmbedding = errors.New("embedding backend failure")

// Embedder converts text into fixed-dimension vectors. Implementations are
// long-lived and safe for concurrent use; the vector dimension is fixed per
// implementation and not interchangeable across backends within one index.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
