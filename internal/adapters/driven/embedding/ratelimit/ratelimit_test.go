package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// stubEmbedder counts calls and returns fixed vectors.
type stubEmbedder struct {
	embedCalls int
	batchCalls int
	closed     bool
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	s.embedCalls++
	return []float32{1, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	out := make([][]float32, len(texts))
	for n := range out {
		out[n] = []float32{1, 0}
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int              { return 2 }
func (s *stubEmbedder) ModelName() string            { return "stub" }
func (s *stubEmbedder) Ping(_ context.Context) error { return nil }
func (s *stubEmbedder) Close() error                 { s.closed = true; return nil }

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func TestWrap_ZeroRateReturnsInner(t *testing.T) {
	inner := &stubEmbedder{}

	assert.Same(t, driven.EmbeddingService(inner), Wrap(inner, 0))
	assert.Same(t, driven.EmbeddingService(inner), Wrap(inner, -1))
}

func TestWrap_PositiveRateWraps(t *testing.T) {
	inner := &stubEmbedder{}
	wrapped := Wrap(inner, 10)

	require.IsType(t, &EmbeddingService{}, wrapped)
	assert.Equal(t, 2, wrapped.Dimensions())
	assert.Equal(t, "stub", wrapped.ModelName())
}

func TestEmbeddingService_Embed_Delegates(t *testing.T) {
	inner := &stubEmbedder{}
	wrapped := Wrap(inner, 100)

	vec, err := wrapped.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vec)
	assert.Equal(t, 1, inner.embedCalls)
}

func TestEmbeddingService_EmbedBatch_SingleUpstreamCall(t *testing.T) {
	inner := &stubEmbedder{}
	wrapped := Wrap(inner, 100)

	// Batch larger than burst: throttled locally, still one upstream call.
	texts := make([]string, 250)
	out, err := wrapped.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, out, 250)
	assert.Equal(t, 1, inner.batchCalls)
}

func TestEmbeddingService_Embed_PacesRequests(t *testing.T) {
	inner := &stubEmbedder{}
	wrapped := Wrap(inner, 20) // 50ms per token after the burst

	ctx := context.Background()
	start := time.Now()
	for n := 0; n < 25; n++ {
		_, err := wrapped.Embed(ctx, "text")
		require.NoError(t, err)
	}
	// 25 requests at 20 rps with burst 20: at least 5 tokens must wait.
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	assert.Equal(t, 25, inner.embedCalls)
}

func TestEmbeddingService_Embed_ContextCancelled(t *testing.T) {
	inner := &stubEmbedder{}
	wrapped := Wrap(inner, 1)

	ctx, cancel := context.WithCancel(context.Background())

	// Drain the burst, then cancel while the next call would wait.
	_, err := wrapped.Embed(ctx, "text")
	require.NoError(t, err)
	cancel()

	_, err = wrapped.Embed(ctx, "text")
	require.Error(t, err)
	assert.Equal(t, 1, inner.embedCalls)
}

func TestEmbeddingService_Close_Propagates(t *testing.T) {
	inner := &stubEmbedder{}
	wrapped := Wrap(inner, 5)

	require.NoError(t, wrapped.Close())
	assert.True(t, inner.closed)
}
