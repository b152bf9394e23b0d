package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	askTopK        int
	askShowContext bool
	askJSON        bool
	askFiles       []string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about ingested documents",
	Long: `Retrieves the most relevant chunks for the question and generates an
answer grounded in them. Use --file to ingest documents first; the
index is in-memory, so without --file the question runs against an
empty index and the model answers without context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of context chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved chunks with the answer")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().StringArrayVarP(&askFiles, "file", "f", nil, "file to ingest before asking (repeatable)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ensureServices(ctx); err != nil {
		return err
	}

	for _, path := range askFiles {
		if _, _, err := ingestFile(ctx, path); err != nil {
			return err
		}
	}

	opts := domain.AskOptions{}
	if askTopK > 0 {
		opts.TopK = askTopK
	} else if appSettings.Retrieval.TopK > 0 {
		opts.TopK = appSettings.Retrieval.TopK
	}

	answer, err := askService.Ask(ctx, question, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	out := struct {
		Answer    string         `json:"answer"`
		NoContext bool           `json:"no_context"`
		Context   []contextChunk `json:"context,omitempty"`
	}{
		Answer:    answer.Text,
		NoContext: answer.NoContext,
	}
	if askShowContext {
		out.Context = make([]contextChunk, len(answer.Context))
		for n, chunk := range answer.Context {
			out.Context[n] = contextChunk{
				ChunkID:    chunk.ID,
				DocumentID: chunk.DocumentID,
				Position:   chunk.Position,
				Content:    chunk.Content,
			}
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// contextChunk is the JSON shape of a retrieved chunk.
type contextChunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Position   int    `json:"position"`
	Content    string `json:"content"`
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	if answer.NoContext {
		cmd.Println("(no relevant context found; answer is not grounded in your documents)")
		cmd.Println()
	}
	cmd.Println(answer.Text)

	if askShowContext && len(answer.Context) > 0 {
		cmd.Println()
		cmd.Println("Context:")
		for n, chunk := range answer.Context {
			cmd.Printf("  [%d] document %s, chunk %d\n", n+1, chunk.DocumentID, chunk.Position)
			cmd.Printf("      %s\n", chunk.Content)
		}
	}
	return nil
}
