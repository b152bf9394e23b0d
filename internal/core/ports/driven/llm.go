package driven

import "context"

// LLMService generates answer text from an assembled prompt.
// Like EmbeddingService it is a black-box request/response capability,
// invoked synchronously once per question. No streaming contract.
//
// Implementations may include:
//   - OpenAI (GPT-4o family)
//   - Groq (Llama models, OpenAI-compatible API)
//   - Ollama (local models)
//   - Google Gemini
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is an optional system instruction prepended to the exchange.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness. Zero means provider default;
	// adapters omit the field from the request when it is not positive.
	Temperature float64
}
