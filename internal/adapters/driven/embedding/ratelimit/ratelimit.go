// Package ratelimit wraps an embedding service with client-side request
// throttling. Hosted embedding APIs enforce per-key rate limits; pacing
// requests locally turns hard 429 failures into waiting.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService throttles calls to an underlying embedding service.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap throttles the inner service to requestsPerSecond. Each text in a
// batch counts as one request, matching how providers meter batch
// calls. A requestsPerSecond of zero or less returns the inner service
// unchanged.
func Wrap(inner driven.EmbeddingService, requestsPerSecond float64) driven.EmbeddingService {
	if requestsPerSecond <= 0 {
		return inner
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &EmbeddingService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for a token, then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return s.inner.Embed(ctx, text)
}

// EmbedBatch waits for one token per text, then delegates. Batches
// larger than the limiter burst are paced in burst-sized waits rather
// than rejected.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	remaining := len(texts)
	for remaining > 0 {
		n := remaining
		if n > s.limiter.Burst() {
			n = s.limiter.Burst()
		}
		if err := s.limiter.WaitN(ctx, n); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		remaining -= n
	}
	return s.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the embedding vector size of the inner service.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the model name of the inner service.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming a token.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the inner service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
