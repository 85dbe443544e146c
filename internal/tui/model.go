package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smartstitch/internal/stitcher"
)

// Model renders the notifications of one stitch run until its update
// channel is closed.
type Model struct {
	title    string
	updates  <-chan stitcher.ProgressUpdate
	started  time.Time
	width    int
	status   string
	percent  float64
	folder   string
	warnings int
	failed   bool
	quitting bool
	// interrupted is set when the user quits before the run ends.
	interrupted bool
}

type doneMsg struct{}

type updateMsg stitcher.ProgressUpdate

func NewModel(title string, updates <-chan stitcher.ProgressUpdate) Model {
	return Model{title: title, updates: updates, started: time.Now(), status: "Starting..."}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.apply(stitcher.ProgressUpdate(msg))
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.interrupted = true
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) apply(u stitcher.ProgressUpdate) {
	switch u.Kind {
	case stitcher.UpdateProgress:
		m.percent = math.Max(0, math.Min(100, u.Percent))
	case stitcher.UpdateStatus:
		m.status = u.Status
		if strings.HasPrefix(u.Status, "[Folder ") {
			if end := strings.Index(u.Status, "]"); end > 0 {
				m.folder = u.Status[1:end]
			}
		}
		if IsWarning(u.Status) {
			m.warnings++
		}
		if strings.HasPrefix(u.Status, "Error") {
			m.failed = true
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	bar := renderBar(barWidth, m.percent/100)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	status := labelStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}

	lines := []string{titleStyle.Render(m.title)}
	if m.folder != "" {
		lines = append(lines, dimStyle.Render(m.folder))
	}
	lines = append(lines,
		status,
		barStyle.Render(bar)+dimStyle.Render(fmt.Sprintf(" %3.0f%%", m.percent)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
	)
	if m.warnings > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("Post-process warnings: %d", m.warnings)))
	}

	return strings.Join(lines, "\n")
}

// Interrupted reports whether the user asked to stop the run.
func (m Model) Interrupted() bool { return m.interrupted }

// IsWarning reports whether a status line announces a post-process failure.
func IsWarning(status string) bool {
	return strings.HasPrefix(status, "Post Process Failed") || strings.HasPrefix(status, "Could not run script")
}

func listenForUpdates(updates <-chan stitcher.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorAccentAlt)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)
