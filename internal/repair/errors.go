package repair

import "fmt"

// Stage identifies which step of the repair pipeline failed for a pack.
type Stage int

const (
	// StageRead covers failures opening or decoding the archive.
	StageRead Stage = iota

	// StageBackup covers failures writing the pre-repair backup copy.
	// The original pack is untouched when this stage fails.
	StageBackup

	// StageWrite covers failures rewriting the archive after a successful
	// backup. The backup exists, so the pack can be restored from it.
	StageWrite
)

// String returns the stage name used in user-facing messages.
func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageBackup:
		return "backup"
	case StageWrite:
		return "write"
	}
	return "unknown"
}

// PackError reports a per-pack failure together with the pipeline stage that
// caused it. Per-pack failures never abort the run; they are surfaced in
// progress events and in the final summary.
type PackError struct {
	Pack  string
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *PackError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Pack, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *PackError) Unwrap() error {
	return e.Err
}
