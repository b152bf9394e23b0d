package driven

import "context"

// VectorIndex stores chunk embeddings and answers nearest-neighbour
// queries. The first inserted vector fixes the index dimension for its
// lifetime; inserts with any other dimension fail with
// domain.ErrDimensionMismatch. The index owns the vectors it stores
// (implementations copy on insert).
//
// Mutation is mutually exclusive: a batch insert is applied as a single
// critical section, so concurrent searches never observe part of a
// document's chunks.
type VectorIndex interface {
	// Insert adds a vector for the given chunk ID.
	Insert(ctx context.Context, chunkID string, embedding []float32) error

	// InsertBatch adds vectors for several chunks atomically: either
	// every vector is inserted, in order, or none are.
	InsertBatch(ctx context.Context, chunkIDs []string, embeddings [][]float32) error

	// Search finds the k most similar stored vectors to the query.
	// Results are ordered by descending similarity; equal similarities
	// keep insertion order. k larger than the index size returns
	// everything; an empty index returns an empty result, never an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Size returns the number of stored vectors.
	Size(ctx context.Context) int

	// Clear removes all stored vectors and resets the dimension.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
