package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestError_Error(t *testing.T) {
	err := &IngestError{
		DocumentID: "doc-1",
		Stage:      StageEmbedded,
		Err:        ErrEmbedding,
	}

	msg := err.Error()
	assert.Contains(t, msg, "doc-1")
	assert.Contains(t, msg, "embedded")
	assert.Contains(t, msg, "embedding service error")
}

func TestIngestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("%w: connection refused", ErrEmbedding)
	err := &IngestError{
		DocumentID: "doc-1",
		Stage:      StageEmbedded,
		Err:        cause,
	}

	assert.ErrorIs(t, err, ErrEmbedding)

	var ingestErr *IngestError
	require.ErrorAs(t, error(err), &ingestErr)
	assert.Equal(t, "doc-1", ingestErr.DocumentID)
	assert.Equal(t, StageEmbedded, ingestErr.Stage)
}

func TestIngestError_DistinctSentinels(t *testing.T) {
	err := &IngestError{
		DocumentID: "doc-1",
		Stage:      StageUploaded,
		Err:        ErrInvalidChunking,
	}

	assert.ErrorIs(t, err, ErrInvalidChunking)
	assert.False(t, errors.Is(err, ErrDimensionMismatch))
	assert.False(t, errors.Is(err, ErrGeneration))
}
