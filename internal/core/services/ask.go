package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.Asker = (*AskService)(nil)

// Prompt assembly constants. The template is deterministic: the same
// question and retrieved chunks always produce the same prompt.
const (
	// systemInstruction primes the model to stay grounded in the
	// retrieved context.
	systemInstruction = "Answer using the provided context."

	// contextDelimiter separates retrieved chunks inside the prompt.
	contextDelimiter = "\n\n---\n\n"

	// noContextMarker replaces the context block when retrieval
	// returned nothing. Generation still runs; the caller sees the
	// degradation via Answer.NoContext.
	noContextMarker = "No relevant context was found in the indexed documents."
)

// AskService answers questions using retrieved document context.
type AskService struct {
	retriever  driving.Retriever
	llmService driven.LLMService
}

// NewAskService creates a new ask service.
func NewAskService(retriever driving.Retriever, llmService driven.LLMService) *AskService {
	return &AskService{
		retriever:  retriever,
		llmService: llmService,
	}
}

// Ask retrieves context for the question, assembles the prompt and
// generates an answer.
func (s *AskService) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error) {
	if s.llmService == nil {
		return nil, domain.ErrLLMUnavailable
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	k := opts.TopK
	if k <= 0 {
		k = domain.DefaultTopK
	}

	logger.Section("Ask")
	logger.Info("Question: %q (k=%d)", question, k)

	chunks, err := s.retriever.Retrieve(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("Retrieved %d context chunks", len(chunks))

	prompt := BuildPrompt(question, chunks)

	text, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		System:      systemInstruction,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	return &domain.Answer{
		Text:      strings.TrimSpace(text),
		Context:   chunks,
		NoContext: len(chunks) == 0,
	}, nil
}

// BuildPrompt assembles the generation prompt from the question and the
// retrieved chunks in retrieval order. When no chunks were retrieved
// the context block carries an explicit marker, so the model answers
// unaugmented instead of the call failing.
func BuildPrompt(question string, chunks []domain.Chunk) string {
	contextBlock := noContextMarker
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for n, chunk := range chunks {
			texts[n] = chunk.Content
		}
		contextBlock = strings.Join(texts, contextDelimiter)
	}

	return "Context:\n" + contextBlock + "\n\nQuestion: " + question
}
