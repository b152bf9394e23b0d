package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// withTempSettingsStore points the commands at a store in a temp
// directory and restores the previous one afterwards.
func withTempSettingsStore(t *testing.T) *file.SettingsStore {
	t.Helper()

	store, err := file.NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	prev := settingsStore
	settingsStore = store
	t.Cleanup(func() {
		settingsStore = prev
	})
	return store
}

func TestConfigInitCmd_WritesDefaults(t *testing.T) {
	store := withTempSettingsStore(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "init"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), store.Path())

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestConfigPathCmd_PrintsPath(t *testing.T) {
	store := withTempSettingsStore(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "path"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), store.Path())
}

func TestConfigShowCmd_MasksAPIKey(t *testing.T) {
	store := withTempSettingsStore(t)

	settings := domain.DefaultAppSettings()
	settings.LLM.Provider = domain.AIProviderGroq
	settings.LLM.APIKey = "gsk-super-secret-1234"
	require.NoError(t, store.Save(settings))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.NotContains(t, out, "gsk-super-secret-1234")
	assert.Contains(t, out, "1234")
	assert.Contains(t, out, "[embedding]")
	assert.Contains(t, out, "[retrieval]")
}

func TestConfigSetCmd_ChunkingPersists(t *testing.T) {
	store := withTempSettingsStore(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "chunking.size", "800"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 800, settings.Chunking.Size)
}

func TestConfigSetCmd_UnknownKey(t *testing.T) {
	withTempSettingsStore(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "set", "nope.key", "value"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration key")
}

func TestApplySetting_Providers(t *testing.T) {
	settings := domain.DefaultAppSettings()

	touched, err := applySetting(&settings, "embedding.provider", "openai")
	require.NoError(t, err)
	assert.Equal(t, "embedding", touched)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, domain.DefaultEmbeddingModels()[domain.AIProviderOpenAI], settings.Embedding.Model)

	touched, err = applySetting(&settings, "llm.provider", "groq")
	require.NoError(t, err)
	assert.Equal(t, "llm", touched)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderGroq], settings.LLM.Model)
}

func TestApplySetting_ProviderKeepsExplicitModel(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.LLM.Model = "my-model"

	_, err := applySetting(&settings, "llm.provider", "ollama")
	require.NoError(t, err)
	assert.Equal(t, "my-model", settings.LLM.Model)
}

func TestApplySetting_UnknownProvider(t *testing.T) {
	settings := domain.DefaultAppSettings()

	_, err := applySetting(&settings, "llm.provider", "skynet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "skynet"`)
}

func TestApplySetting_CredentialKeys(t *testing.T) {
	settings := domain.DefaultAppSettings()

	tests := []struct {
		key     string
		value   string
		touched string
	}{
		{"embedding.model", "text-embedding-3-large", "embedding"},
		{"embedding.base_url", "http://localhost:11434", "embedding"},
		{"embedding.api_key", "sk-123", "embedding"},
		{"llm.model", "gpt-4o", "llm"},
		{"llm.base_url", "http://localhost:11434", "llm"},
		{"llm.api_key", "sk-456", "llm"},
	}
	for _, tc := range tests {
		touched, err := applySetting(&settings, tc.key, tc.value)
		require.NoError(t, err, tc.key)
		assert.Equal(t, tc.touched, touched, tc.key)
	}

	assert.Equal(t, "sk-123", settings.Embedding.APIKey)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
}

func TestApplySetting_RateLimit(t *testing.T) {
	settings := domain.DefaultAppSettings()

	touched, err := applySetting(&settings, "embedding.requests_per_second", "2.5")
	require.NoError(t, err)
	assert.Empty(t, touched)
	assert.Equal(t, 2.5, settings.Embedding.RequestsPerSecond)

	_, err = applySetting(&settings, "embedding.requests_per_second", "-1")
	assert.Error(t, err)

	_, err = applySetting(&settings, "embedding.requests_per_second", "fast")
	assert.Error(t, err)
}

func TestApplySetting_ChunkingValidation(t *testing.T) {
	settings := domain.DefaultAppSettings()

	_, err := applySetting(&settings, "chunking.size", "0")
	assert.Error(t, err)

	_, err = applySetting(&settings, "chunking.size", "40")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must exceed overlap")

	_, err = applySetting(&settings, "chunking.overlap", "400")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be smaller than chunk size")

	_, err = applySetting(&settings, "chunking.overlap", "-1")
	assert.Error(t, err)

	_, err = applySetting(&settings, "chunking.overlap", "100")
	require.NoError(t, err)
	assert.Equal(t, 100, settings.Chunking.Overlap)
}

func TestApplySetting_TopK(t *testing.T) {
	settings := domain.DefaultAppSettings()

	_, err := applySetting(&settings, "retrieval.top_k", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, settings.Retrieval.TopK)

	_, err = applySetting(&settings, "retrieval.top_k", "0")
	assert.Error(t, err)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "***", maskKey("abc"))
	assert.Equal(t, "****", maskKey("abcd"))
	assert.Equal(t, "*********1234", maskKey("gsk-abcde1234"))
}
