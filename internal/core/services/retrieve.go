package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// RetrieverService embeds questions and finds the most similar chunks.
type RetrieverService struct {
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewRetrieverService creates a new retriever service.
func NewRetrieverService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *RetrieverService {
	return &RetrieverService{
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// Retrieve embeds the question, searches the index and hydrates the
// matched chunks in descending similarity order. An embedding failure
// propagates to the caller; it is never masked as an empty result.
func (s *RetrieverService) Retrieve(ctx context.Context, question string, k int) ([]domain.Chunk, error) {
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Debug("Retrieve: question=%q, k=%d", question, k)

	queryEmbedding, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryEmbedding))

	hits, err := s.vectorIndex.Search(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	chunks := make([]domain.Chunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Chunk was deleted after indexing, skip it.
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		chunks = append(chunks, *chunk)
	}

	return chunks, nil
}
