package domain

// AskOptions configures a question.
type AskOptions struct {
	// TopK is the number of chunks to retrieve as context.
	// Zero or negative falls back to DefaultTopK.
	TopK int

	// MaxTokens caps the generated answer length. Zero means provider default.
	MaxTokens int

	// Temperature controls generation randomness. Zero means provider
	// default; providers only receive the value when it is positive.
	Temperature float64
}

// DefaultTopK is the number of chunks retrieved when none is requested.
const DefaultTopK = 3

// Answer is the result of asking a question.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Context holds the chunks used to ground the answer, in retrieval
	// order (most similar first). Empty when nothing was retrieved.
	Context []Chunk

	// NoContext is true when retrieval returned nothing and the answer
	// was generated without document context.
	NoContext bool
}
