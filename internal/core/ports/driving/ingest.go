package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Ingestor accepts uploaded documents and makes them searchable.
type Ingestor interface {
	// Ingest runs the pipeline for one document: chunk, embed, store,
	// index. It returns the number of chunks indexed. Ingestion is
	// atomic at document granularity: on failure none of the
	// document's chunks are in the index, and the returned error is a
	// *domain.IngestError identifying the failed stage.
	//
	// Independent documents may be ingested concurrently.
	Ingest(ctx context.Context, doc *domain.Document) (int, error)

	// Status reports the ingestion state of a document.
	Status(ctx context.Context, documentID string) (*domain.IngestStatus, error)
}
