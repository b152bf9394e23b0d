package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Retriever finds the chunks most relevant to a question.
type Retriever interface {
	// Retrieve embeds the question and returns the k most similar
	// chunks in descending similarity order. An embedding failure
	// propagates; it is never silently turned into an empty result.
	Retrieve(ctx context.Context, question string, k int) ([]domain.Chunk, error)
}

// Asker answers questions using retrieved document context.
type Asker interface {
	// Ask retrieves context for the question, assembles a prompt and
	// generates an answer. When retrieval returns nothing the answer
	// is still generated, with an explicit no-context marker in place
	// of document text (Answer.NoContext reports this).
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Answer, error)
}
