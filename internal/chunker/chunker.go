// Package chunker splits document text into bounded, overlapping segments.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DefaultChunkSize is the default window size in runes.
const DefaultChunkSize = 400

// DefaultOverlap is the default number of runes shared by adjacent chunks.
const DefaultOverlap = 50

// Chunker splits document content into fixed-size overlapping chunks.
// The unit of measurement is runes, so multi-byte characters are never
// split mid-sequence.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a chunker. The chunk size must be positive and the
// overlap must be in [0, chunkSize); anything else fails with
// domain.ErrInvalidChunking.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidChunking, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidChunking, overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured window size in runes.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split slides a window of chunkSize runes across the document content,
// advancing by chunkSize-overlap each step. The last window may be
// shorter than chunkSize and is still emitted, so no trailing text is
// dropped. Empty content produces no chunks. Output order follows
// document order: chunk 0 precedes chunk 1.
func (c *Chunker) Split(doc *domain.Document) []domain.Chunk {
	if doc.Content == "" {
		return nil
	}

	runes := []rune(doc.Content)
	total := len(runes)
	stride := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, total/stride+1)

	position := 0
	for start := 0; start < total; start += stride {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    string(runes[start:end]),
			Position:   position,
			Start:      start,
			End:        end,
		})
		position++

		if end == total {
			break
		}
	}

	return chunks
}
