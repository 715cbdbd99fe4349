package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mkarren/packfix/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Backup settings
	BackupPrefix  string `json:"backup_prefix"`
	CreateBackups bool   `json:"create_backups"`

	// Repair settings
	MaxConcurrentRepairs int `json:"max_concurrent_repairs"`

	// Entry classification
	TextExtensions  []string `json:"text_extensions"`
	EntryPathFilter string   `json:"entry_path_filter"`
}

// DefaultSettings returns settings with default values.
//
// The defaults process packs one at a time in directory order, back up every
// affected pack with the "backup_" prefix, and inspect the common text-bearing
// entry types of resource packs.
func DefaultSettings() *Settings {
	return &Settings{
		BackupPrefix:  "backup_",
		CreateBackups: true,

		MaxConcurrentRepairs: 1,

		TextExtensions:  []string{".json", ".mcmeta", ".txt", ".properties"},
		EntryPathFilter: "",
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so the tool works
// with no configuration at all.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToEntryConfig converts settings to the entry classification config used
// when inspecting archives.
func (s *Settings) ToEntryConfig() *model.EntryConfig {
	return &model.EntryConfig{
		TextExtensions: s.TextExtensions,
		PathFilter:     s.EntryPathFilter,
	}
}
