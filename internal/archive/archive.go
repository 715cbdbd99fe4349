// Package archive reads and rewrites ZIP resource packages.
//
// Packages are small enough to hold fully in memory, so the whole archive is
// loaded as a slice of entries, patched in place, and written back through a
// temporary file that is renamed over the original. An interrupted rewrite
// therefore never leaves a partially-written archive as the only copy on
// disk.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Entry is one file inside a package, held fully in memory.
//
// Name, modification time, permissions and compression method are preserved
// across a read/write cycle so that unmodified entries come back
// byte-identical in content and equivalent in metadata.
type Entry struct {
	// Name is the entry path inside the archive, always forward-slashed.
	Name string

	// Data is the uncompressed entry content. Empty for directory entries.
	Data []byte

	// Mode is the entry's file mode.
	Mode fs.FileMode

	// Modified is the entry's modification time.
	Modified time.Time

	// Method is the original compression method (Store or Deflate).
	Method uint16
}

// IsDir reports whether the entry is a directory marker.
func (e Entry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// Read opens the ZIP archive at path and loads every entry into memory.
//
// Directory entries are kept so the archive structure survives a rewrite.
// Returns an error if the file is not a valid ZIP archive or an entry
// cannot be decompressed.
func Read(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entry := Entry{
			Name:     f.Name,
			Mode:     f.Mode(),
			Modified: f.Modified,
			Method:   f.Method,
		}

		if !f.FileInfo().IsDir() {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
			}
			entry.Data = data
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Write rewrites the archive at path from the in-memory entries.
//
// The new archive is first written to "<path>.tmp" and then renamed over
// the original, so the original stays intact until the replacement is
// complete. The temporary file is removed on failure.
func Write(path string, entries []Entry) error {
	tmpPath := path + ".tmp"

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temporary archive: %w", err)
	}

	w := zip.NewWriter(tmpFile)
	for _, e := range entries {
		if err := writeEntry(w, e); err != nil {
			w.Close()
			tmpFile.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write entry %s: %w", e.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("finalize archive: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync archive: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close archive: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace archive: %w", err)
	}

	return nil
}

func writeEntry(w *zip.Writer, e Entry) error {
	header := &zip.FileHeader{
		Name:     e.Name,
		Method:   e.Method,
		Modified: e.Modified,
	}
	header.SetMode(e.Mode)

	if e.IsDir() {
		// Directory markers carry no content.
		header.Method = zip.Store
		_, err := w.CreateHeader(header)
		return err
	}

	ew, err := w.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = ew.Write(e.Data)
	return err
}
