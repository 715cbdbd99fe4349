package repair

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/mkarren/packfix/internal/archive"
	"github.com/mkarren/packfix/internal/config"
	"github.com/mkarren/packfix/internal/ioutils"
	"github.com/mkarren/packfix/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	// FallbackToken is the obsolete model fallback reference that became
	// invalid after the platform update.
	FallbackToken = "#missing"

	// FallbackReplacement is the corrected reference.
	FallbackReplacement = "#0"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a repair progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Summary is the final report of a run.
type Summary struct {
	Scanned      int
	Repaired     int
	Clean        int
	Skipped      int
	Failed       int
	EntriesFixed int

	// RepairedPacks lists the names of repaired packs, for user visibility.
	RepairedPacks []string

	// FailedPacks lists one readable line per failed pack, naming the
	// failure stage.
	FailedPacks []string
}

// Manager coordinates pack repairs.
type Manager struct {
	settings *config.Settings
	entryCfg *model.EntryConfig
	dryRun   bool

	packs []*model.Pack

	processedPacks int32
	repairedPacks  int32
	entriesFixed   int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new repair Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		entryCfg:   settings.ToEntryConfig(),
		onProgress: onProgress,
	}
}

// SetDryRun toggles dry-run mode: packs are scanned and inspected, and the
// summary reports what would change, but no backup or rewrite is performed.
func (m *Manager) SetDryRun(dryRun bool) {
	m.dryRun = dryRun
}

// Scan enumerates candidate packages in dir (non-recursive).
//
// Candidates are regular files with a .zip extension whose name does not
// carry the backup prefix, so backups from earlier runs are never
// re-processed. A missing or unreadable directory is the only fatal error.
func (m *Manager) Scan(ctx context.Context, dir string) error {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	m.packs = nil
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.EqualFold(filepath.Ext(name), ".zip") {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Ignoring non-archive file: %s", name), Level: LevelVerbose})
			continue
		}
		if model.IsBackup(name, m.settings.BackupPrefix) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Ignoring backup from a previous run: %s", name), Level: LevelVerbose})
			continue
		}
		m.packs = append(m.packs, model.NewPack(filepath.Join(dir, name), m.settings.BackupPrefix))
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d package(s) in %s", len(m.packs), dir), Level: LevelInfo})
	return nil
}

// Run processes every scanned pack.
//
// Packs are independent, so they may be repaired concurrently up to
// MaxConcurrentRepairs; the default of 1 keeps strict directory-listing
// order. Per-pack failures are recorded and reported, never returned:
// the only error Run returns is context cancellation.
func (m *Manager) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	limit := m.settings.MaxConcurrentRepairs
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, pack := range m.packs {
		pack := pack // capture
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.processPack(ctx, pack)
			return nil
		})
	}

	return g.Wait()
}

// Progress returns current run progress.
func (m *Manager) Progress() (processed, total, repaired, entriesFixed int32) {
	return atomic.LoadInt32(&m.processedPacks), int32(len(m.packs)),
		atomic.LoadInt32(&m.repairedPacks), atomic.LoadInt32(&m.entriesFixed)
}

// Packs returns the scanned packs with their current statuses.
func (m *Manager) Packs() []*model.Pack {
	return m.packs
}

// PackNames returns the names of all scanned packs.
func (m *Manager) PackNames() []string {
	names := make([]string, len(m.packs))
	for i, pack := range m.packs {
		names[i] = pack.Name
	}
	return names
}

// Summary builds the final report. Call it after Run has returned.
func (m *Manager) Summary() Summary {
	s := Summary{Scanned: len(m.packs)}
	for _, pack := range m.packs {
		switch pack.Status {
		case model.StatusRepaired:
			s.Repaired++
			s.EntriesFixed += pack.EntriesFixed
			s.RepairedPacks = append(s.RepairedPacks, pack.Name)
		case model.StatusClean:
			s.Clean++
		case model.StatusSkipped:
			s.Skipped++
		case model.StatusFailed:
			s.Failed++
			s.FailedPacks = append(s.FailedPacks, pack.Err.Error())
		}
	}
	return s
}

func (m *Manager) processPack(ctx context.Context, pack *model.Pack) {
	defer atomic.AddInt32(&m.processedPacks, 1)

	entries, err := archive.Read(pack.Path)
	if err != nil {
		m.fail(pack, &PackError{Pack: pack.Name, Stage: StageRead, Err: err})
		return
	}

	textEntries, fixed := m.patchEntries(entries)

	if textEntries == 0 {
		pack.Status = model.StatusSkipped
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: no text-bearing entries", pack.Name), Level: LevelInfo})
		return
	}

	if fixed == 0 {
		// Clean packs are left completely untouched: no re-save, no backup,
		// bytes and modification time preserved.
		pack.Status = model.StatusClean
		m.progress(ProgressEvent{Message: fmt.Sprintf("Clean: %s", pack.Name), Level: LevelInfo})
		return
	}

	if m.dryRun {
		pack.Status = model.StatusRepaired
		pack.EntriesFixed = fixed
		atomic.AddInt32(&m.repairedPacks, 1)
		atomic.AddInt32(&m.entriesFixed, int32(fixed))
		m.progress(ProgressEvent{Message: fmt.Sprintf("[dry run] Would repair %s (%d entries)", pack.Name, fixed), Level: LevelInfo})
		return
	}

	if m.settings.CreateBackups {
		if ioutils.FileExists(pack.BackupPath) {
			// Keep the existing backup: it is the oldest pristine copy.
			m.progress(ProgressEvent{Message: fmt.Sprintf("Backup already exists, keeping it: %s", filepath.Base(pack.BackupPath)), Level: LevelWarning})
		} else if err := ioutils.CopyFile(ctx, pack.Path, pack.BackupPath); err != nil {
			m.fail(pack, &PackError{Pack: pack.Name, Stage: StageBackup, Err: err})
			return
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Backed up %s", pack.Name), Level: LevelVerbose})
		}
	}

	if err := archive.Write(pack.Path, entries); err != nil {
		m.fail(pack, &PackError{Pack: pack.Name, Stage: StageWrite, Err: err})
		if m.settings.CreateBackups {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Original can be restored from %s", filepath.Base(pack.BackupPath)), Level: LevelWarning})
		}
		return
	}

	pack.Status = model.StatusRepaired
	pack.EntriesFixed = fixed
	atomic.AddInt32(&m.repairedPacks, 1)
	atomic.AddInt32(&m.entriesFixed, int32(fixed))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Repaired %s (%d entries)", pack.Name, fixed), Level: LevelSuccess})
}

// patchEntries replaces the fallback token in every text-bearing entry,
// in place. Replacement is literal substring replacement, matching the
// historical repair behavior: "#missingfoo" becomes "#0foo".
//
// Returns how many entries were text-bearing and how many were rewritten.
func (m *Manager) patchEntries(entries []archive.Entry) (textEntries, fixed int) {
	token := []byte(FallbackToken)
	replacement := []byte(FallbackReplacement)

	for i := range entries {
		e := &entries[i]
		if e.IsDir() || !m.entryCfg.IsTextEntry(e.Name, e.Data) {
			continue
		}
		textEntries++
		if !bytes.Contains(e.Data, token) {
			continue
		}
		e.Data = bytes.ReplaceAll(e.Data, token, replacement)
		fixed++
	}
	return textEntries, fixed
}

func (m *Manager) fail(pack *model.Pack, err *PackError) {
	pack.Status = model.StatusFailed
	pack.Err = err
	m.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
