package domain

import "time"

// Document represents an uploaded document held in memory.
// It is created at the upload boundary from already-extracted raw text
// and is immutable afterwards. Nothing survives process shutdown.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the name of the source file the text was extracted from.
	Filename string

	// Content is the full raw text of the document.
	Content string

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}

// Chunk represents a bounded text segment derived from a document.
// Chunks are the unit of retrieval: each carries the embedding vector
// computed for its text. Chunks are never mutated after ingestion.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	// Chunk 0 precedes chunk 1 in document order.
	Position int

	// Start and End are the rune offsets of this chunk within the
	// document content, as the half-open interval [Start, End).
	Start int
	End   int

	// Embedding is the vector representation for similarity search.
	// Every indexed chunk has exactly one embedding of the
	// process-wide fixed dimension.
	Embedding []float32
}
