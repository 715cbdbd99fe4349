package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.BackupPrefix != "backup_" {
		t.Errorf("BackupPrefix = %q, want %q", s.BackupPrefix, "backup_")
	}
	if !s.CreateBackups {
		t.Error("CreateBackups should default to true")
	}
	if s.MaxConcurrentRepairs != 1 {
		t.Errorf("MaxConcurrentRepairs = %d, want 1", s.MaxConcurrentRepairs)
	}

	foundJSON := false
	for _, ext := range s.TextExtensions {
		if ext == ".json" {
			foundJSON = true
		}
	}
	if !foundJSON {
		t.Error("TextExtensions should include .json by default")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(s, DefaultSettings()) {
		t.Error("missing config file should yield default settings")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid JSON")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	s := DefaultSettings()
	s.BackupPrefix = "orig-"
	s.CreateBackups = false
	s.MaxConcurrentRepairs = 4
	s.EntryPathFilter = "models/item/"

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(loaded, s) {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, s)
	}
}

func TestToEntryConfig(t *testing.T) {
	s := DefaultSettings()
	s.EntryPathFilter = "models/"

	cfg := s.ToEntryConfig()
	if cfg.PathFilter != "models/" {
		t.Errorf("PathFilter = %q, want %q", cfg.PathFilter, "models/")
	}
	if !reflect.DeepEqual(cfg.TextExtensions, s.TextExtensions) {
		t.Error("TextExtensions should carry over from settings")
	}
}
