package llm

import (
	"context"
	"errors"

	"github.com/plantdoc/PlantRAG/internal/rag/prompt"
)

// ErrGeneration marks an unreachable completion backend, a non-2xx reply or
// a malformed response. On the streaming path it can only surface before the
// first fragment; after that the stream just ends early.
var ErrGeneration = errors.New("generation backend failure")

// Provider is an opaque completion service. Generate blocks for the full
// answer; GenerateStream forwards incremental text fragments to emit as they
// arrive and stops as soon as emit returns an error (downstream gone) or ctx
// is cancelled.
type Provider interface {
	Generate(ctx context.Context, payload prompt.Payload) (string, error)
	GenerateStream(ctx context.Context, payload prompt.Payload, emit func(fragment string) error) error
}
