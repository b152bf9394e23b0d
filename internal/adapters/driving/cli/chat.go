package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [file]...",
	Short: "Interactive question-answering session",
	Long: `Ingests the given files and opens an interactive session where you
can ask questions about them. The index lives for the duration of the
session.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ensureServices(ctx); err != nil {
		return err
	}

	documents := 0
	for _, path := range args {
		if _, _, err := ingestFile(ctx, path); err != nil {
			return err
		}
		documents++
	}

	model := tui.New(askService, tui.Stats{
		Documents: documents,
		Vectors:   vectorIndex.Size(ctx),
		TopK:      appSettings.Retrieval.TopK,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
