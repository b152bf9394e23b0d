package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/extract"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

var (
	ingestChunkSize int
	ingestOverlap   int
	ingestWatch     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]...",
	Short: "Ingest documents into the in-memory index",
	Long: `Chunks, embeds and indexes the given files (.txt, .md, .pdf or any
UTF-8 text). The index lives only for the duration of the process, so
this command is mostly useful with --watch or for validating that a set
of files ingests cleanly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "chunk window size in characters (default from config)")
	ingestCmd.Flags().IntVar(&ingestOverlap, "overlap", -1, "characters shared by adjacent chunks (default from config)")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep running and re-ingest files when they change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ensureServices(ctx); err != nil {
		return err
	}
	if err := applyChunkingFlags(); err != nil {
		return err
	}

	// path -> last ingested document ID, for re-ingestion on change.
	ingested := make(map[string]string, len(args))

	for _, path := range args {
		docID, count, err := ingestFile(ctx, path)
		if err != nil {
			return err
		}
		ingested[path] = docID
		cmd.Printf("Indexed %d chunks from %s\n", count, path)
	}
	cmd.Printf("Ingested %d documents (%d vectors)\n", len(ingested), vectorIndex.Size(ctx))

	if !ingestWatch {
		return nil
	}
	return watchFiles(cmd, ctx, ingested)
}

// applyChunkingFlags rebuilds the ingest service when the chunking
// flags deviate from the configured defaults.
func applyChunkingFlags() error {
	size := appSettings.Chunking.Size
	overlap := appSettings.Chunking.Overlap
	if ingestChunkSize > 0 {
		size = ingestChunkSize
	}
	if ingestOverlap >= 0 {
		overlap = ingestOverlap
	}
	if size == appSettings.Chunking.Size && overlap == appSettings.Chunking.Overlap {
		return nil
	}

	ch, err := chunker.New(size, overlap)
	if err != nil {
		return err
	}
	ingestService = services.NewIngestService(ch, docStore, vectorIndex, embeddingService)
	return nil
}

// ingestFile extracts a file and runs it through the pipeline.
func ingestFile(ctx context.Context, path string) (string, int, error) {
	doc, err := extract.FromFile(path)
	if err != nil {
		return "", 0, err
	}
	count, err := ingestService.Ingest(ctx, doc)
	if err != nil {
		return "", 0, fmt.Errorf("ingest %s: %w", path, err)
	}
	return doc.ID, count, nil
}

// watchFiles re-ingests files as they change, until interrupted.
// The previous version's document is removed from the store first;
// its stale vectors are skipped at retrieval time.
func watchFiles(cmd *cobra.Command, ctx context.Context, ingested map[string]string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories rather than files: editors replace files on
	// save, which drops file-level watches.
	dirs := make(map[string]struct{})
	watched := make(map[string]struct{}, len(ingested))
	for path := range ingested {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes, press Ctrl+C to stop")
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}

			if oldID, ok := ingested[eventKey(ingested, abs)]; ok && oldID != "" {
				if err := docStore.DeleteDocument(ctx, oldID); err != nil {
					logger.Warn("Remove previous version of %s: %v", abs, err)
				}
			}
			docID, count, err := ingestFile(ctx, abs)
			if err != nil {
				cmd.PrintErrf("Re-ingest %s failed: %v\n", abs, err)
				continue
			}
			ingested[eventKey(ingested, abs)] = docID
			cmd.Printf("Re-indexed %d chunks from %s\n", count, abs)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("Watcher error: %v", err)
			}
		}
	}
}

// eventKey maps an absolute event path back to the key used when the
// file was first ingested (which may have been relative).
func eventKey(ingested map[string]string, abs string) string {
	if _, ok := ingested[abs]; ok {
		return abs
	}
	for path := range ingested {
		if other, err := filepath.Abs(path); err == nil && other == abs {
			return path
		}
	}
	return abs
}
