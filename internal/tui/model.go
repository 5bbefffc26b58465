package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bootload/internal/format"
)

// Layout constants for the loading screen.
const (
	minBarWidth     = 10
	defaultBarWidth = 40
	tickInterval    = 250 * time.Millisecond
)

// Phase is the loading screen's view of the load lifecycle.
type Phase int

const (
	// PhaseLoading shows the progress bar.
	PhaseLoading Phase = iota
	// PhaseLoaded is entered when the surface is hidden.
	PhaseLoaded
	// PhaseFailed is entered when an error message is shown.
	PhaseFailed
)

// Model is the root bubbletea model of the loading screen.
type Model struct {
	header HeaderModel
	keymap KeyMap
	eta    *format.ETA

	phase    Phase
	percent  int
	errored  bool
	message  string
	reload   func()
	reloaded bool
	quit     bool
	width    int
}

// NewModel creates a loading screen model.
func NewModel(title string) Model {
	return Model{
		header: NewHeaderModel(title),
		keymap: DefaultKeyMap(),
		eta:    format.NewETA(),
	}
}

// Init starts the elapsed-time ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case ProgressMsg:
		m.percent = max(0, min(100, msg.Percent))
		m.eta.Observe(m.percent)
		return m, nil

	case ErrorMarkMsg:
		m.errored = true
		return m, nil

	case HideMsg:
		m.phase = PhaseLoaded
		m.header.SetDone()
		return m, nil

	case RemoveMsg:
		return m, tea.Quit

	case MessageMsg:
		m.phase = PhaseFailed
		m.message = msg.Text
		m.header.SetDone()
		return m, nil

	case ReloadAttachedMsg:
		m.reload = msg.Reload
		m.keymap.Reload.SetEnabled(msg.Reload != nil)
		return m, nil

	case TickMsg:
		if m.phase != PhaseLoading {
			return m, nil
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quit = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Reload):
		if m.reload == nil {
			return m, nil
		}
		m.reload()
		m.reloaded = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the loading screen.
func (m Model) View() string {
	lines := []string{m.header.View(), m.progressLine()}
	if m.message != "" {
		lines = append(lines, messageStyle.Render("✗ "+m.message))
	}
	if help := m.helpLine(); help != "" {
		lines = append(lines, help)
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

func (m Model) progressLine() string {
	style := barStyle
	if m.errored {
		style = barErrorStyle
	}
	bar := style.Render(format.ProgressBar(m.percent, m.barWidth()))
	return fmt.Sprintf("%s %3d%% %s", bar, m.percent, m.status())
}

func (m Model) status() string {
	switch {
	case m.phase == PhaseLoaded:
		return successStyle.Render("Loaded")
	case m.phase == PhaseFailed:
		return statusStyle.Render("Failed")
	case m.errored:
		return statusStyle.Render("Loading with errors")
	default:
		return statusStyle.Render("Loading, " + format.FormatETA(m.eta.Remaining()) + " left")
	}
}

func (m Model) helpLine() string {
	bindings := m.keymap.ShortHelp()
	if m.phase == PhaseLoaded {
		return ""
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// barWidth sizes the bar to the window, leaving room for the percentage
// and the status text.
func (m Model) barWidth() int {
	if m.width == 0 {
		return defaultBarWidth
	}
	return max(minBarWidth, min(defaultBarWidth, m.width-40))
}

// Percent returns the last progress value received.
func (m Model) Percent() int { return m.percent }

// Phase returns the current phase.
func (m Model) Phase() Phase { return m.phase }

// Message returns the error message shown, if any.
func (m Model) Message() string { return m.message }

// Reloaded reports whether the user asked for a reload.
func (m Model) Reloaded() bool { return m.reloaded }

// Quit reports whether the user quit the screen.
func (m Model) Quit() bool { return m.quit }

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
