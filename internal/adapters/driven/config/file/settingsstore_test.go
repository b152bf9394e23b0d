package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewSettingsStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSettingsStore_Load_MissingFileReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Load()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Chunking.Size, settings.Chunking.Size)
	assert.Equal(t, defaults.Chunking.Overlap, settings.Chunking.Overlap)
	assert.Equal(t, defaults.Retrieval.TopK, settings.Retrieval.TopK)
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
}

func TestSettingsStore_SaveAndLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider:          domain.AIProviderOpenAI,
		Model:             "text-embedding-3-small",
		APIKey:            "sk-test",
		RequestsPerSecond: 5,
	}
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderGroq,
		Model:    "llama-3.3-70b-versatile",
		APIKey:   "gsk-test",
	}
	settings.Chunking.Size = 512
	settings.Retrieval.TopK = 7

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsStore_Save_RestrictsPermissions(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(domain.DefaultAppSettings()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSettingsStore_Load_PartialFileKeepsDefaults(t *testing.T) {
	store := newTestStore(t)

	// Only the LLM section is present; everything else falls back to
	// defaults.
	partial := `
[llm]
provider = "ollama"
model = "llama3.2"
`
	require.NoError(t, os.WriteFile(store.Path(), []byte(partial), 0600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "llama3.2", settings.LLM.Model)
	assert.Equal(t, domain.DefaultAppSettings().Chunking.Size, settings.Chunking.Size)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
}

func TestSettingsStore_Load_MalformedFile(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(store.Path(), []byte("not = [valid"), 0600))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestSettingsStore_Save_Overwrites(t *testing.T) {
	store := newTestStore(t)

	first := domain.DefaultAppSettings()
	first.Retrieval.TopK = 5
	require.NoError(t, store.Save(first))

	second := domain.DefaultAppSettings()
	second.Retrieval.TopK = 9
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Retrieval.TopK)
}
