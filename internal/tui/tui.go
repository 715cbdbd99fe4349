// Package tui provides a Bubble Tea terminal user interface for packfix.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarren/packfix/internal/config"
	"github.com/mkarren/packfix/internal/repair"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	packStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateRepairing
	StateComplete
	StateError
)

// maxLogLines caps the recent-activity feed, like the history window of the
// original console tool.
const maxLogLines = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   repair.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	logs      []LogEntry
	packs     []string
	summary   repair.Summary
	err       error

	// Repair context
	ctx    context.Context
	cancel context.CancelFunc

	// Repair manager reference
	manager  *repair.Manager
	settings *config.Settings

	// Progress events from the manager arrive on this channel.
	events chan repair.ProgressEvent

	// Repair progress
	processedPacks int32
	totalPacks     int32
	repairedPacks  int32
	entriesFixed   int32

	// Options
	backups bool
	dryRun  bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model using the given settings.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/packs (empty = current directory)"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		events:    make(chan repair.ProgressEvent, 64),
		ctx:       ctx,
		cancel:    cancel,
		backups:   settings.CreateBackups,
	}
}

// Init initializes the model. The event reader started here is the only
// reader of the events channel for the lifetime of the program.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for each manager progress event.
	ProgressMsg struct {
		Event repair.ProgressEvent
	}

	// ScanDoneMsg is sent when the directory scan completes.
	ScanDoneMsg struct {
		Packs   []string
		Manager *repair.Manager
		Err     error
	}

	// RepairDoneMsg is sent when all packs have been processed.
	RepairDoneMsg struct {
		Summary repair.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateScanning || m.state == StateRepairing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput {
				m.state = StateScanning
				return m, tea.Batch(m.scanPacks(), m.spinner.Tick)
			}

		case "b":
			if m.state == StateInput {
				m.backups = !m.backups
			}

		case "n":
			if m.state == StateInput {
				m.dryRun = !m.dryRun
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.packs = nil
				m.summary = repair.Summary{}
				m.err = nil
				m.processedPacks = 0
				m.totalPacks = 0
				m.repairedPacks = 0
				m.entriesFixed = 0
				m.manager = nil
				// The events channel is reused across runs: it is never
				// closed and the reader from Init keeps draining it.
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level != repair.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			if len(m.logs) > maxLogLines {
				m.logs = m.logs[len(m.logs)-maxLogLines:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case ScanDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.packs = msg.Packs
			m.manager = msg.Manager
			m.state = StateRepairing
			cmds = append(cmds, m.startRepair(), m.tickProgress())
		}

	case RepairDoneMsg:
		m.summary = msg.Summary
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateRepairing {
			processed, total, repaired, fixed := m.manager.Progress()
			m.processedPacks = processed
			m.totalPacks = total
			m.repairedPacks = repaired
			m.entriesFixed = fixed

			var percent float64
			if total > 0 {
				percent = float64(processed) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent returns a command that delivers the next manager event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📦 packfix"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Replaces the obsolete #missing fallback with #0 in resource packs"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateRepairing:
		b.WriteString(m.viewRepairing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Directory to scan:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	backupsCheck := "[ ]"
	if m.backups {
		backupsCheck = "[×]"
	}
	dryRunCheck := "[ ]"
	if m.dryRun {
		dryRunCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create backups (b)\n", backupsCheck))
	b.WriteString(fmt.Sprintf("  %s Dry run (n)\n", dryRunCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", verboseCheck))
	b.WriteString("\n")

	if !m.backups && !m.dryRun {
		b.WriteString(warningStyle.Render("⚠ Without backups, originals are overwritten permanently"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning for packs..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewRepairing() string {
	var b strings.Builder

	if len(m.packs) > 0 {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Processing %d pack(s):", len(m.packs))))
		b.WriteString("\n\n")
	}

	var percent float64
	if m.totalPacks > 0 {
		percent = float64(m.processedPacks) / float64(m.totalPacks)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Packs: %d/%d | Repaired: %d | Entries fixed: %d",
		m.processedPacks,
		m.totalPacks,
		m.repairedPacks,
		m.entriesFixed,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	header := "✨ Repair Complete!"
	if m.dryRun {
		header = "✨ Dry Run Complete — nothing was modified"
	}

	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Scanned:  %d\n"+
			"Repaired: %d\n"+
			"Clean:    %d\n"+
			"Skipped:  %d\n"+
			"Failed:   %d\n"+
			"Entries fixed: %d",
		header,
		m.summary.Scanned,
		m.summary.Repaired,
		m.summary.Clean,
		m.summary.Skipped,
		m.summary.Failed,
		m.summary.EntriesFixed,
	))
	b.WriteString(box)
	b.WriteString("\n")

	if len(m.summary.RepairedPacks) > 0 {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("Repaired packs:"))
		b.WriteString("\n")
		for _, name := range m.summary.RepairedPacks {
			b.WriteString(packStyle.Render(fmt.Sprintf("  ✓ %s", name)))
			b.WriteString("\n")
		}
	}

	if len(m.summary.FailedPacks) > 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Failed packs:"))
		b.WriteString("\n")
		for _, line := range m.summary.FailedPacks {
			b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s", line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case repair.LevelError:
			style = errorStyle
			prefix = "✗"
		case repair.LevelWarning:
			style = warningStyle
			prefix = "!"
		case repair.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case repair.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • b: backups • n: dry run • v: verbose • esc: quit"
	case StateScanning, StateRepairing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// scanPacks scans the target directory and creates the manager.
func (m *Model) scanPacks() tea.Cmd {
	return func() tea.Msg {
		dir := strings.TrimSpace(m.textInput.Value())
		if dir == "" {
			dir = "."
		}

		// Apply options on a copy so toggles don't leak into the shared settings
		settings := *m.settings
		settings.CreateBackups = m.backups

		events := m.events
		manager := repair.NewManager(&settings, func(event repair.ProgressEvent) {
			// Never block the repair pipeline on a slow UI.
			select {
			case events <- event:
			default:
			}
		})
		manager.SetDryRun(m.dryRun)

		if err := manager.Scan(m.ctx, dir); err != nil {
			return ScanDoneMsg{Err: err}
		}

		return ScanDoneMsg{
			Packs:   manager.PackNames(),
			Manager: manager,
			Err:     nil,
		}
	}
}

// startRepair runs the repair in the background.
func (m *Model) startRepair() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return RepairDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := m.manager.Run(m.ctx)

		return RepairDoneMsg{
			Summary: m.manager.Summary(),
			Err:     err,
		}
	}
}

// Run starts the TUI application with the given settings.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
