// Package cli implements the askdoc command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	storagemem "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/storage/memory"
	indexmem "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/askdoc-cli/internal/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

// Services wired by ensureServices. Tests swap these for fakes.
var (
	settingsStore    driven.SettingsStore
	appSettings      domain.AppSettings
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	ingestService    driving.Ingestor
	askService       driving.Asker

	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `askdoc ingests text, markdown and PDF documents into an in-memory
vector index and answers questions about them using retrieval-augmented
generation. Documents live only for the duration of the process; run
'askdoc chat' for an interactive session over a set of files.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices wires the full pipeline: settings, AI providers,
// stores and core services. Idempotent; safe to call from every
// command that needs the pipeline.
func ensureServices(ctx context.Context) error {
	if servicesReady {
		return nil
	}

	// A .env file in the working directory supplies API keys during
	// development. Missing files are fine.
	_ = godotenv.Load()

	if settingsStore == nil {
		store, err := file.NewSettingsStore("")
		if err != nil {
			return fmt.Errorf("open settings: %w", err)
		}
		settingsStore = store
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return err
	}
	applyEnvOverrides(&settings)
	appSettings = settings

	embeddingService, err = ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return err
	}
	llmService, err = ai.CreateAndValidateLLMService(ctx, &settings.LLM)
	if err != nil {
		return err
	}

	docStore = storagemem.NewDocumentStore()
	vectorIndex = indexmem.New()

	ch, err := chunker.New(settings.Chunking.Size, settings.Chunking.Overlap)
	if err != nil {
		return fmt.Errorf("invalid chunking settings: %w", err)
	}

	ingestService = services.NewIngestService(ch, docStore, vectorIndex, embeddingService)
	retriever := services.NewRetrieverService(docStore, vectorIndex, embeddingService)
	askService = services.NewAskService(retriever, llmService)

	servicesReady = true
	return nil
}

// applyEnvOverrides lets environment variables fill in credentials that
// are absent from the settings file. The file always wins when set.
func applyEnvOverrides(settings *domain.AppSettings) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = apiKeyFromEnv(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = apiKeyFromEnv(settings.LLM.Provider)
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		if settings.Embedding.Provider == domain.AIProviderOllama && settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = host
		}
		if settings.LLM.Provider == domain.AIProviderOllama && settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = host
		}
	}
}

// apiKeyFromEnv returns the conventional environment variable for a
// provider's API key.
func apiKeyFromEnv(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderGroq:
		return os.Getenv("GROQ_API_KEY")
	case domain.AIProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}

// Close releases AI provider and index resources at process exit.
func Close() {
	if embeddingService != nil {
		embeddingService.Close()
	}
	if llmService != nil {
		llmService.Close()
	}
	if vectorIndex != nil {
		vectorIndex.Close()
	}
}
