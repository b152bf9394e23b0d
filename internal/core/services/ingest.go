package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: chunk, embed, store, index.
//
// Ingestion is atomic at document granularity. All embeddings are
// generated before anything touches the vector index, and the index
// insert is a single batch, so a failure at any stage leaves the index
// without any of the document's chunks. Independent documents may be
// ingested concurrently; the vector index serialises the batches.
type IngestService struct {
	chunker          *chunker.Chunker
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService

	// Status tracking
	mu       sync.RWMutex
	statuses map[string]domain.IngestStatus
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	chunker *chunker.Chunker,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *IngestService {
	return &IngestService{
		chunker:          chunker,
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		statuses:         make(map[string]domain.IngestStatus),
	}
}

// Ingest runs the pipeline for one document and returns the number of
// chunks indexed.
func (s *IngestService) Ingest(ctx context.Context, doc *domain.Document) (int, error) {
	if s.embeddingService == nil {
		return 0, s.fail(doc.ID, domain.StageUploaded, domain.ErrEmbeddingUnavailable)
	}

	logger.Section("Ingest")
	logger.Info("Ingesting %s (%s, %d bytes)", doc.ID, doc.Filename, len(doc.Content))
	s.setStage(doc.ID, domain.StageUploaded, 0)

	// 1. CHUNK
	chunks := s.chunker.Split(doc)
	s.setStage(doc.ID, domain.StageChunked, 0)
	logger.Debug("Chunked %s into %d chunks", doc.ID, len(chunks))

	if len(chunks) == 0 {
		// Empty documents are stored but contribute nothing to the index.
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			return 0, s.fail(doc.ID, domain.StageChunked, err)
		}
		s.setStage(doc.ID, domain.StageIndexed, 0)
		return 0, nil
	}

	// 2. EMBED ALL CHUNKS BEFORE ANY INSERT
	texts := make([]string, len(chunks))
	for n := range chunks {
		texts[n] = chunks[n].Content
	}

	embeddings, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, s.fail(doc.ID, domain.StageEmbedded,
			fmt.Errorf("%w: %w", domain.ErrEmbedding, err))
	}
	if len(embeddings) != len(chunks) {
		return 0, s.fail(doc.ID, domain.StageEmbedded,
			fmt.Errorf("%w: got %d embeddings for %d chunks",
				domain.ErrEmbedding, len(embeddings), len(chunks)))
	}
	for n, embedding := range embeddings {
		if len(embedding) == 0 {
			// A missing vector is a service failure, never replaced
			// with zeros.
			return 0, s.fail(doc.ID, domain.StageEmbedded,
				fmt.Errorf("%w: empty embedding for chunk %d", domain.ErrEmbedding, n))
		}
		chunks[n].Embedding = embedding
	}
	s.setStage(doc.ID, domain.StageEmbedded, 0)
	logger.Debug("Embedded %d chunks (%d dimensions)", len(chunks), len(embeddings[0]))

	// 3. SAVE TO DOCUMENT STORE
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return 0, s.fail(doc.ID, domain.StageEmbedded, err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return 0, s.fail(doc.ID, domain.StageEmbedded, err)
	}

	// 4. INDEX AS A SINGLE BATCH
	chunkIDs := make([]string, len(chunks))
	for n := range chunks {
		chunkIDs[n] = chunks[n].ID
	}
	if err := s.vectorIndex.InsertBatch(ctx, chunkIDs, embeddings); err != nil {
		// Keep the store consistent with the index: the failed
		// document leaves no trace.
		if delErr := s.docStore.DeleteDocument(ctx, doc.ID); delErr != nil {
			logger.Warn("Rollback of %s failed: %v", doc.ID, delErr)
		}
		return 0, s.fail(doc.ID, domain.StageIndexed, err)
	}

	s.setStage(doc.ID, domain.StageIndexed, len(chunks))
	logger.Info("Indexed %d chunks for %s", len(chunks), doc.ID)
	return len(chunks), nil
}

// Status reports the ingestion state of a document.
func (s *IngestService) Status(_ context.Context, documentID string) (*domain.IngestStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.statuses[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &status, nil
}

// setStage records a stage transition.
func (s *IngestService) setStage(documentID string, stage domain.IngestStage, chunks int) {
	s.mu.Lock()
	s.statuses[documentID] = domain.IngestStatus{
		DocumentID: documentID,
		Stage:      stage,
		Chunks:     chunks,
	}
	s.mu.Unlock()

	logger.Stage(documentID, stage.String())
}

// fail records a terminal failure and returns the wrapping IngestError.
func (s *IngestService) fail(documentID string, stage domain.IngestStage, err error) error {
	ingestErr := &domain.IngestError{
		DocumentID: documentID,
		Stage:      stage,
		Err:        err,
	}

	s.mu.Lock()
	s.statuses[documentID] = domain.IngestStatus{
		DocumentID: documentID,
		Stage:      domain.StageFailed,
		Err:        ingestErr,
	}
	s.mu.Unlock()

	logger.Warn("Ingest failed for %s at %s: %v", documentID, stage, err)
	return ingestErr
}
