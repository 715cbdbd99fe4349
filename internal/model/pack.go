package model

import (
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Status tracks where a pack is in the repair lifecycle.
type Status int

const (
	// StatusPending means the pack has been found but not yet inspected.
	StatusPending Status = iota

	// StatusClean means the pack was inspected and contains no fallback token.
	// Clean packs are never rewritten, so their bytes and modification time
	// stay exactly as they were.
	StatusClean

	// StatusSkipped means the pack has no text-bearing entries to inspect.
	StatusSkipped

	// StatusRepaired means the fallback token was replaced and the pack was
	// rewritten (after its backup was created).
	StatusRepaired

	// StatusFailed means reading, backing up or rewriting the pack failed.
	StatusFailed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusClean:
		return "clean"
	case StatusSkipped:
		return "skipped"
	case StatusRepaired:
		return "repaired"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Pack represents one ZIP resource package found in the target directory.
//
// The backup path is computed when the pack is created, by prefixing the
// original file name and keeping the backup in the same directory:
//
//	pack := model.NewPack("/packs/retro.zip", "backup_")
//	// pack.BackupPath = "/packs/backup_retro.zip"
type Pack struct {
	// Name is the file name within the target directory.
	Name string

	// Path is the full path to the package file.
	Path string

	// BackupPath is the computed path for the pre-repair backup copy.
	BackupPath string

	// Status is updated as the pack moves through the repair pipeline.
	Status Status

	// EntriesFixed is the number of archive entries that were rewritten.
	EntriesFixed int

	// Err holds the failure when Status is StatusFailed.
	Err error
}

// NewPack creates a Pack for the package file at the given path, with its
// backup path computed from the backup prefix.
func NewPack(packPath, backupPrefix string) *Pack {
	name := filepath.Base(packPath)
	return &Pack{
		Name:       name,
		Path:       packPath,
		BackupPath: filepath.Join(filepath.Dir(packPath), backupPrefix+name),
	}
}

// IsBackup reports whether the file name identifies a backup produced by a
// previous run. Backups are excluded from scanning so repeated runs never
// re-process them.
func IsBackup(name, backupPrefix string) bool {
	return strings.HasPrefix(name, backupPrefix)
}

// EntryConfig controls which archive entries are treated as text-bearing
// and therefore inspected for the fallback token.
type EntryConfig struct {
	// TextExtensions lists lowercase file extensions (with leading dot)
	// of entries that may contain the token.
	TextExtensions []string

	// PathFilter, when non-empty, restricts inspection to entries whose
	// archive path contains this substring (e.g. "models/item/").
	PathFilter string
}

// IsTextEntry reports whether an archive entry should be inspected.
//
// An entry qualifies when its extension is in TextExtensions, its path
// passes PathFilter, and its content is valid UTF-8. Entries that fail any
// of these checks are passed through byte-identical.
func (c *EntryConfig) IsTextEntry(name string, data []byte) bool {
	if c.PathFilter != "" && !strings.Contains(name, c.PathFilter) {
		return false
	}
	// Archive entry names always use forward slashes.
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range c.TextExtensions {
		if ext == e {
			return utf8.Valid(data)
		}
	}
	return false
}
