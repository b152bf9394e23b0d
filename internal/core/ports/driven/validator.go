package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// AIConfigValidator checks that AI provider settings actually work
// before they are persisted.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration.
	ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error

	// ValidateLLM validates an LLM configuration.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
