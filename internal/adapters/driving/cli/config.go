package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage askdoc configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it. Provider credentials are
validated against the provider before saving.

Keys:
  embedding.provider              ollama, openai or gemini
  embedding.model                 embedding model name
  embedding.base_url              API endpoint (ollama/compatible)
  embedding.api_key               API key (cloud providers)
  embedding.requests_per_second   client-side rate limit, 0 disables
  llm.provider                    ollama, openai, groq or gemini
  llm.model                       generation model name
  llm.base_url                    API endpoint (ollama/compatible)
  llm.api_key                     API key (cloud providers)
  chunking.size                   chunk window size in characters
  chunking.overlap                characters shared by adjacent chunks
  retrieval.top_k                 default context chunks per question`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// openSettingsStore returns the wired store, creating the default one
// on first use.
func openSettingsStore() (*file.SettingsStore, error) {
	if store, ok := settingsStore.(*file.SettingsStore); ok {
		return store, nil
	}
	store, err := file.NewSettingsStore("")
	if err != nil {
		return nil, err
	}
	settingsStore = store
	return store, nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := openSettingsStore()
	if err != nil {
		return err
	}

	if err := store.Save(domain.DefaultAppSettings()); err != nil {
		return err
	}
	cmd.Printf("Wrote default configuration to %s\n", store.Path())
	cmd.Println("Set a provider with e.g. 'askdoc config set llm.provider groq'")
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openSettingsStore()
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}

	cmd.Println("[embedding]")
	cmd.Printf("  provider            = %s\n", settings.Embedding.Provider)
	cmd.Printf("  model               = %s\n", settings.Embedding.Model)
	cmd.Printf("  base_url            = %s\n", settings.Embedding.BaseURL)
	cmd.Printf("  api_key             = %s\n", maskKey(settings.Embedding.APIKey))
	cmd.Printf("  requests_per_second = %g\n", settings.Embedding.RequestsPerSecond)
	cmd.Println("[llm]")
	cmd.Printf("  provider            = %s\n", settings.LLM.Provider)
	cmd.Printf("  model               = %s\n", settings.LLM.Model)
	cmd.Printf("  base_url            = %s\n", settings.LLM.BaseURL)
	cmd.Printf("  api_key             = %s\n", maskKey(settings.LLM.APIKey))
	cmd.Println("[chunking]")
	cmd.Printf("  size                = %d\n", settings.Chunking.Size)
	cmd.Printf("  overlap             = %d\n", settings.Chunking.Overlap)
	cmd.Println("[retrieval]")
	cmd.Printf("  top_k               = %d\n", settings.Retrieval.TopK)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := openSettingsStore()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	store, err := openSettingsStore()
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}

	touched, err := applySetting(&settings, key, value)
	if err != nil {
		return err
	}

	// Validate provider settings before persisting them.
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	validator := ai.NewConfigValidator()
	switch touched {
	case "embedding":
		if settings.Embedding.IsConfigured() {
			if err := validator.ValidateEmbedding(ctx, &settings.Embedding); err != nil {
				return fmt.Errorf("embedding configuration rejected: %w", err)
			}
		}
	case "llm":
		if settings.LLM.IsConfigured() {
			if err := validator.ValidateLLM(ctx, &settings.LLM); err != nil {
				return fmt.Errorf("llm configuration rejected: %w", err)
			}
		}
	}

	if err := store.Save(settings); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

// applySetting mutates the settings for a dotted key and reports which
// provider section, if any, was touched.
func applySetting(settings *domain.AppSettings, key, value string) (string, error) {
	switch key {
	case "embedding.provider":
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return "", fmt.Errorf("unknown provider %q", value)
		}
		settings.Embedding.Provider = provider
		if settings.Embedding.Model == "" {
			settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
		}
		return "embedding", nil
	case "embedding.model":
		settings.Embedding.Model = value
		return "embedding", nil
	case "embedding.base_url":
		settings.Embedding.BaseURL = value
		return "embedding", nil
	case "embedding.api_key":
		settings.Embedding.APIKey = value
		return "embedding", nil
	case "embedding.requests_per_second":
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil || rps < 0 {
			return "", fmt.Errorf("invalid rate %q", value)
		}
		settings.Embedding.RequestsPerSecond = rps
		return "", nil

	case "llm.provider":
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return "", fmt.Errorf("unknown provider %q", value)
		}
		settings.LLM.Provider = provider
		if settings.LLM.Model == "" {
			settings.LLM.Model = domain.DefaultLLMModels()[provider]
		}
		return "llm", nil
	case "llm.model":
		settings.LLM.Model = value
		return "llm", nil
	case "llm.base_url":
		settings.LLM.BaseURL = value
		return "llm", nil
	case "llm.api_key":
		settings.LLM.APIKey = value
		return "llm", nil

	case "chunking.size":
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 {
			return "", fmt.Errorf("invalid chunk size %q", value)
		}
		settings.Chunking.Size = size
		if settings.Chunking.Overlap >= size {
			return "", fmt.Errorf("chunk size %d must exceed overlap %d", size, settings.Chunking.Overlap)
		}
		return "", nil
	case "chunking.overlap":
		overlap, err := strconv.Atoi(value)
		if err != nil || overlap < 0 {
			return "", fmt.Errorf("invalid overlap %q", value)
		}
		if overlap >= settings.Chunking.Size {
			return "", fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, settings.Chunking.Size)
		}
		settings.Chunking.Overlap = overlap
		return "", nil

	case "retrieval.top_k":
		k, err := strconv.Atoi(value)
		if err != nil || k <= 0 {
			return "", fmt.Errorf("invalid top_k %q", value)
		}
		settings.Retrieval.TopK = k
		return "", nil

	default:
		return "", fmt.Errorf("unknown configuration key %q", key)
	}
}

// maskKey hides all but the tail of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
