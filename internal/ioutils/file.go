// Package ioutils provides file system utilities for packfix.
//
// This package contains functions for:
//   - File copying (used for pre-repair backups)
//   - Existence checks
//   - Directory creation
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"io"
	"os"
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The copy is synced to disk before the function
// returns, so a nil error means the destination is durably written. On any
// failure the partial destination file is removed.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused but reserved for future use)
//   - src: Source file path (must exist)
//   - dst: Destination file path (will be created/overwritten)
//
// Returns an error if:
//   - Source file cannot be opened
//   - Destination file cannot be created
//   - Copy or sync fails
//
// Example:
//
//	err := CopyFile(ctx, "/packs/retro.zip", "/packs/backup_retro.zip")
func CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		os.Remove(dst)
		return err
	}

	if err := destFile.Sync(); err != nil {
		destFile.Close()
		os.Remove(dst)
		return err
	}

	if err := destFile.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return nil
}

// FileExists reports whether path exists and is a regular file.
//
// Example:
//
//	if ioutils.FileExists("/packs/backup_retro.zip") {
//	    // keep the existing backup
//	}
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/packs/archive")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
