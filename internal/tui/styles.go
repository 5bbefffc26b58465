package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bootload/internal/ui"
)

// Style variables for the loading screen.
// Initialized from the ui theme system via initStyles().
var (
	panelStyle      lipgloss.Style
	headerStyle     lipgloss.Style
	titleStyle      lipgloss.Style
	separatorStyle  lipgloss.Style
	elapsedStyle    lipgloss.Style
	barStyle        lipgloss.Style
	barErrorStyle   lipgloss.Style
	statusStyle     lipgloss.Style
	successStyle    lipgloss.Style
	messageStyle    lipgloss.Style
	footerKeyStyle  lipgloss.Style
	footerDescStyle lipgloss.Style
)

func init() {
	initStyles()
}

// initStyles rebuilds all styles from the current ui theme.
// Called at package init and again by NewSurface, after InitTheme has run.
func initStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	separatorStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	barStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	barErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	statusStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	successStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	messageStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)
}
