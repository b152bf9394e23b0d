// Package memory provides an in-memory vector index using brute-force
// cosine similarity. A linear scan is exact and fast enough for the
// corpus sizes this tool targets.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores chunk vectors in insertion order and answers
// nearest-neighbour queries with an exact linear scan.
//
// The first inserted vector fixes the dimension for the index lifetime.
// Vectors are copied on insert, so the index never aliases caller
// buffers. All mutation happens under a single write lock; a batch
// insert is one critical section, so readers never observe part of a
// document's chunks.
type Index struct {
	mu        sync.RWMutex
	dimension int
	chunkIDs  []string
	vectors   [][]float32
}

// New creates an empty index. The dimension is established by the
// first inserted vector.
func New() *Index {
	return &Index{}
}

// Insert adds a vector for the given chunk ID. Duplicate chunk IDs are
// kept as separate entries; there is no implicit dedup.
func (i *Index) Insert(_ context.Context, chunkID string, embedding []float32) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.checkDimension(embedding); err != nil {
		return err
	}
	i.append(chunkID, embedding)
	return nil
}

// InsertBatch adds vectors for several chunks atomically. Every vector
// is validated against the established dimension before any is stored,
// so a mismatch anywhere in the batch leaves the index untouched.
func (i *Index) InsertBatch(_ context.Context, chunkIDs []string, embeddings [][]float32) error {
	if len(chunkIDs) != len(embeddings) {
		return fmt.Errorf("chunk IDs and embeddings length mismatch: %d != %d",
			len(chunkIDs), len(embeddings))
	}
	if len(chunkIDs) == 0 {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Validate the whole batch first. The first vector of the batch
	// establishes the dimension when the index is empty.
	dim := i.dimension
	if dim == 0 {
		dim = len(embeddings[0])
	}
	if dim == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrDimensionMismatch)
	}
	for _, embedding := range embeddings {
		if len(embedding) != dim {
			return fmt.Errorf("%w: got %d, index dimension is %d",
				domain.ErrDimensionMismatch, len(embedding), dim)
		}
	}

	for n, embedding := range embeddings {
		i.append(chunkIDs[n], embedding)
	}
	return nil
}

// Search returns the k most similar entries by cosine similarity in
// descending order. Ties keep insertion order: the earlier-inserted
// chunk ranks first. k larger than the index size returns all entries;
// an empty index or non-positive k returns an empty result.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if k <= 0 || len(i.vectors) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != i.dimension {
		return nil, fmt.Errorf("%w: query has %d, index dimension is %d",
			domain.ErrDimensionMismatch, len(query), i.dimension)
	}

	hits := make([]driven.VectorHit, len(i.vectors))
	for n, vector := range i.vectors {
		hits[n] = driven.VectorHit{
			ChunkID:    i.chunkIDs[n],
			Similarity: cosineSimilarity(query, vector),
		}
	}

	// Stable sort preserves insertion order for equal similarities.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Size returns the number of stored vectors.
func (i *Index) Size(_ context.Context) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.vectors)
}

// Clear removes all stored vectors and resets the dimension.
func (i *Index) Clear(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.dimension = 0
	i.chunkIDs = nil
	i.vectors = nil
	return nil
}

// Close releases resources.
func (i *Index) Close() error {
	// Nothing to release for the in-memory index.
	return nil
}

// checkDimension validates against the established dimension.
// Callers must hold the write lock.
func (i *Index) checkDimension(embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrDimensionMismatch)
	}
	if i.dimension == 0 {
		return nil
	}
	if len(embedding) != i.dimension {
		return fmt.Errorf("%w: got %d, index dimension is %d",
			domain.ErrDimensionMismatch, len(embedding), i.dimension)
	}
	return nil
}

// append copies the vector into the index. Callers must hold the write
// lock and have validated the dimension.
func (i *Index) append(chunkID string, embedding []float32) {
	if i.dimension == 0 {
		i.dimension = len(embedding)
	}
	stored := make([]float32, len(embedding))
	copy(stored, embedding)
	i.chunkIDs = append(i.chunkIDs, chunkID)
	i.vectors = append(i.vectors, stored)
}

// cosineSimilarity computes dot(a,b) / (|a| * |b|) in float64.
// A zero vector on either side scores 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for n := range a {
		x := float64(a[n])
		y := float64(b[n])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
