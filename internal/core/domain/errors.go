package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidChunking indicates bad chunking parameters:
	// chunk size must be positive and overlap must be in [0, chunk size).
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrDimensionMismatch indicates an embedding whose dimension differs
	// from the dimension established by the first vector in the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbedding indicates the embedding service failed.
	// The pipeline never substitutes a zero vector for a failed embedding.
	ErrEmbedding = errors.New("embedding service error")

	// ErrGeneration indicates the language model failed to produce an answer.
	// The pipeline does not retry; callers may.
	ErrGeneration = errors.New("generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Questions cannot be answered without a generator.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Neither ingestion nor retrieval can run without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// IngestError reports a failed document ingestion. It records which
// document failed and at which pipeline stage, and wraps the cause so
// callers can match sentinel errors with errors.Is.
type IngestError struct {
	// DocumentID identifies the document whose ingestion failed.
	DocumentID string

	// Stage is the pipeline stage that failed.
	Stage IngestStage

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest document %s: %s: %v", e.DocumentID, e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IngestError) Unwrap() error {
	return e.Err
}
