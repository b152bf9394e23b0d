package domain

// IngestStage identifies a step of the ingestion pipeline.
// A document moves through the stages in order and ends either
// Indexed (success) or Failed (failure at any transition).
type IngestStage string

// Ingestion pipeline stages.
const (
	// StageUploaded means the document has been accepted but not processed.
	StageUploaded IngestStage = "uploaded"

	// StageChunked means the document text has been split into chunks.
	StageChunked IngestStage = "chunked"

	// StageEmbedded means embeddings were generated for every chunk.
	StageEmbedded IngestStage = "embedded"

	// StageIndexed means all chunks are stored and searchable. Terminal.
	StageIndexed IngestStage = "indexed"

	// StageFailed means ingestion failed and none of the document's
	// chunks are in the index. Terminal.
	StageFailed IngestStage = "failed"
)

// String returns the string representation.
func (s IngestStage) String() string {
	return string(s)
}

// Terminal returns true if no further transitions are possible.
func (s IngestStage) Terminal() bool {
	return s == StageIndexed || s == StageFailed
}

// IngestStatus is the observable state of one document's ingestion.
type IngestStatus struct {
	// DocumentID identifies the document.
	DocumentID string

	// Stage is the current pipeline stage.
	Stage IngestStage

	// Chunks is the number of chunks indexed so far (0 until StageIndexed).
	Chunks int

	// Err is set when Stage is StageFailed.
	Err error
}
