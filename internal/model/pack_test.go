package model

import (
	"path/filepath"
	"testing"
)

func TestNewPack_BackupPath(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		want   string
	}{
		{filepath.Join("packs", "retro.zip"), "backup_", filepath.Join("packs", "backup_retro.zip")},
		{"retro.zip", "backup_", "backup_retro.zip"},
		{filepath.Join("a", "b", "pack with spaces.zip"), "backup_", filepath.Join("a", "b", "backup_pack with spaces.zip")},
		{filepath.Join("packs", "retro.zip"), "orig-", filepath.Join("packs", "orig-retro.zip")},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p := NewPack(tt.path, tt.prefix)
			if p.BackupPath != tt.want {
				t.Errorf("BackupPath = %q, want %q", p.BackupPath, tt.want)
			}
			if p.Name != filepath.Base(tt.path) {
				t.Errorf("Name = %q, want %q", p.Name, filepath.Base(tt.path))
			}
		})
	}
}

func TestNewPack_StartsPending(t *testing.T) {
	p := NewPack("retro.zip", "backup_")
	if p.Status != StatusPending {
		t.Errorf("Status = %v, want %v", p.Status, StatusPending)
	}
}

func TestIsBackup(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"backup_retro.zip", true},
		{"retro.zip", false},
		{"my_backup_retro.zip", false},
		{"backup_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBackup(tt.name, "backup_"); got != tt.want {
				t.Errorf("IsBackup(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusClean, "clean"},
		{StatusSkipped, "skipped"},
		{StatusRepaired, "repaired"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestEntryConfig_IsTextEntry(t *testing.T) {
	cfg := &EntryConfig{
		TextExtensions: []string{".json", ".txt"},
	}

	tests := []struct {
		name  string
		entry string
		data  []byte
		want  bool
	}{
		{"json entry", "assets/models/item/sword.json", []byte(`{"particle": "#missing"}`), true},
		{"uppercase extension", "assets/models/item/SWORD.JSON", []byte(`{}`), true},
		{"txt entry", "credits.txt", []byte("hello"), true},
		{"binary extension", "assets/textures/sword.png", []byte{0x89, 0x50, 0x4e, 0x47}, false},
		{"no extension", "assets/models/item/sword", []byte("text"), false},
		{"invalid utf8 in text extension", "broken.json", []byte{0xff, 0xfe, 0x00}, false},
		{"directory entry", "assets/models/", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.IsTextEntry(tt.entry, tt.data); got != tt.want {
				t.Errorf("IsTextEntry(%q) = %v, want %v", tt.entry, got, tt.want)
			}
		})
	}
}

func TestEntryConfig_PathFilter(t *testing.T) {
	cfg := &EntryConfig{
		TextExtensions: []string{".json"},
		PathFilter:     "models/item/",
	}

	if !cfg.IsTextEntry("assets/models/item/sword.json", []byte("{}")) {
		t.Error("entry under models/item/ should be inspected")
	}
	if cfg.IsTextEntry("pack.json", []byte("{}")) {
		t.Error("entry outside models/item/ should not be inspected when a filter is set")
	}
}
