package driven

import "github.com/custodia-labs/askdoc-cli/internal/core/domain"

// SettingsStore loads and persists application settings.
type SettingsStore interface {
	// Load reads the stored settings. A missing settings file yields
	// the defaults, not an error.
	Load() (domain.AppSettings, error)

	// Save writes the settings.
	Save(settings domain.AppSettings) error
}
