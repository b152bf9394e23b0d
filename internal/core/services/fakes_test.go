package services

import (
	"context"
	"errors"
	"math"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// fakeEmbedder produces deterministic embeddings derived from the text
// content, so identical texts always map to identical vectors. It can
// be programmed to fail after a number of successful texts.
type fakeEmbedder struct {
	dims      int
	failAfter int // fail once this many texts have been embedded; 0 = never
	embedded  int
	err       error
}

func newFakeEmbedder(dims int) *fakeEmbedder {
	return &fakeEmbedder{dims: dims}
}

func (f *fakeEmbedder) embedOne(text string) ([]float32, error) {
	if f.failAfter > 0 && f.embedded >= f.failAfter {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("embedding service unavailable")
	}
	f.embedded++

	// Spread rune values across the vector, then normalise.
	vec := make([]float64, f.dims)
	for n, r := range text {
		vec[n%f.dims] += float64(r) * float64(n+1)
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1
	}
	out := make([]float32, f.dims)
	for n, v := range vec {
		out[n] = float32(v / norm)
	}
	return out, nil
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return f.embedOne(text)
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for n, text := range texts {
		vec, err := f.embedOne(text)
		if err != nil {
			return nil, err
		}
		out[n] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return f.dims }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

// fakeLLM records the prompts it receives and returns a fixed response.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

var _ driven.LLMService = (*fakeLLM)(nil)
